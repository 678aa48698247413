// Package testutil provides repository mocks and an event recorder shared by the
// service, cache and handler tests.
package testutil

import "github.com/gin-gonic/gin"

func init() {
	gin.SetMode(gin.TestMode)
}
