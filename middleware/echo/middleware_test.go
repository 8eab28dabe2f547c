package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	echomw "github.com/reoring/jsmodel/middleware/echo"
	"github.com/reoring/jsmodel/model"
)

func TestValidateJSON(t *testing.T) {
	user := model.Object("User").
		Field("name", model.String).Required().
		UnknownStrict().
		MustBuild()

	e := echo.New()
	e.POST("/users", func(c echo.Context) error {
		inst, ok := echomw.GetInstance(c)
		if !ok {
			t.Fatal("instance missing from context")
		}
		name, _ := inst.Get("name")
		return c.String(http.StatusOK, name.(string))
	}, echomw.ValidateJSON(user))

	cases := []struct {
		body string
		code int
	}{
		{`{"name": "bob"}`, http.StatusOK},
		{`{"name": "bob", "admin": true}`, http.StatusUnprocessableEntity},
		{`[1, 2]`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.code {
			t.Fatalf("%s: want %d, got %d (%s)", tc.body, tc.code, rec.Code, rec.Body.String())
		}
	}
}
