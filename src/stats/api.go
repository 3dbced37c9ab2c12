package stats

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig/apix"
	"github.com/jom-io/gorig/global/consts"
)

func Compute(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	opts := Options{}
	e := apix.BindParams(ctx, &opts)
	if e != nil {
		return
	}
	s := S()
	opts.Root = s.cfg.HTTP.Root
	data, err := s.Compute(ctx, opts)
	apix.HandleData(ctx, consts.CurdSelectFailCode, data, err)
}
