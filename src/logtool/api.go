package logtool

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig/apix"
	"github.com/jom-io/gorig/global/consts"
	"github.com/jom-io/gorig/utils/errors"
	"github.com/jom-io/logalyzer/src/conf"
)

func GetFormats(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	formats := Formats()
	apix.HandleData(ctx, consts.CurdSelectFailCode, &formats, nil)
}

func Files(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	paths, e := apix.GetParamArray[string](ctx, "paths", apix.Force)
	if e != nil {
		return
	}
	files, err := ListLogFiles(paths, conf.Get().HTTP.Root)
	var ve *errors.Error
	if err != nil {
		ve = errors.Verify(err.Error())
	}
	apix.HandleData(ctx, consts.CurdSelectFailCode, &files, ve)
}

func Search(ctx *gin.Context) {
	defer apix.HandlePanic(ctx)
	opts := SearchOptions{}
	e := apix.BindParams(ctx, &opts)
	if e != nil {
		return
	}
	opts.RootDir = conf.Get().HTTP.Root
	result, err := SearchLogs(ctx, opts)
	apix.HandleData(ctx, consts.CurdSelectFailCode, result, err)
}
