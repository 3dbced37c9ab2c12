package route

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/logalyzer/src/conf"
	"github.com/jom-io/logalyzer/src/logtool"
	"github.com/jom-io/logalyzer/src/mid"
	"github.com/jom-io/logalyzer/src/runstat"
	"github.com/jom-io/logalyzer/src/stats"
)

// NewEngine returns a standalone engine serving the logalyzer routes. cfg
// becomes the process settings.
func NewEngine(cfg conf.Config) *gin.Engine {
	conf.Set(cfg)
	engine := gin.New()
	engine.Use(gin.Recovery())
	Routes(&engine.RouterGroup, cfg)
	return engine
}

func Routes(groupRouter *gin.RouterGroup, cfg conf.Config) {
	la := groupRouter.Group("logalyzer")
	la.Use(mid.Sign(cfg.HTTP.Token))
	la.GET("formats", logtool.GetFormats)
	la.GET("files", logtool.Files)
	la.POST("parse", logtool.Search)
	la.POST("stats", stats.Compute)
	la.GET("usage", runstat.Usage)
}
