package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig/utils/sys"
	"github.com/jom-io/logalyzer/src/boot"
	"os"
)

func init() {
	boot.Done()
	if !sys.RunMode.IsRd() {
		gin.SetMode(gin.ReleaseMode)
	}
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
