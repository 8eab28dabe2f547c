package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	ginmw "github.com/reoring/jsmodel/middleware/gin"
	"github.com/reoring/jsmodel/model"
)

func TestValidateJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := model.Object("User").
		Field("name", model.String).Required().
		MustBuild()

	r := gin.New()
	r.POST("/users", ginmw.ValidateJSON(user), func(c *gin.Context) {
		inst, ok := ginmw.GetInstance(c)
		if !ok {
			t.Fatal("instance missing from context")
		}
		name, _ := inst.Get("name")
		c.String(http.StatusOK, "%v", name)
	})

	cases := []struct {
		body string
		code int
	}{
		{`{"name": "alice"}`, http.StatusOK},
		{`{}`, http.StatusUnprocessableEntity},
		{`{"name":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body)))
		if rec.Code != tc.code {
			t.Fatalf("%s: want %d, got %d (%s)", tc.body, tc.code, rec.Code, rec.Body.String())
		}
		if tc.code == http.StatusOK && rec.Body.String() != "alice" {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	}
}
