package logalyzer

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig/httpx"
	"github.com/jom-io/logalyzer/src/conf"
	"github.com/jom-io/logalyzer/src/route"
)

// Setup mounts the logalyzer routes on the host gorig application.
func Setup() {
	httpx.RegisterRouter(func(groupRouter *gin.RouterGroup) {
		route.Routes(groupRouter, conf.Get())
	})
}
