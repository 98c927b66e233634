package servehttp

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors builds the cross-origin policy for browser clients. An empty origins
// value opens the surface to any origin; a comma separated list pins it down
// and allows credentials so the session cookie can travel.
func Cors(origins string) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	if origins == "" {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = strings.Split(origins, ",")
		conf.AllowCredentials = true
	}
	conf.AddAllowHeaders("Authorization")
	return cors.New(conf)
}
