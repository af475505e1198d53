package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	contextSubjectKey = "auth_subject"
	contextRoleKey    = "auth_role"
)

func SetAuthContext(c echo.Context, subject string, role string) {
	c.Set(contextSubjectKey, subject)
	c.Set(contextRoleKey, role)
}

func SubjectFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextSubjectKey)
	subject, ok := value.(string)
	return subject, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextRoleKey)
	role, ok := value.(string)
	return role, ok
}
