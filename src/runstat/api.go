package runstat

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig/apix"
	"github.com/jom-io/gorig/global/consts"
)

var boot = Start()

// Usage reports the footprint of the serving process since it started.
func Usage(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	fp := boot.Take(ctx)
	apix.HandleData(ctx, consts.CurdSelectFailCode, &fp, nil)
}
