package search

import (
	"net/http"

	"spkwork/domain/spk"
	"spkwork/misc"
	"spkwork/session"

	"github.com/gin-gonic/gin"
)

const PathSpkSearch = "/v1/spk-search"

func RegisterSpkSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSpkSearch, middleWares...)
	g.GET("", handleSearchSpks)
}

func handleSearchSpks(c *gin.Context) {
	query := spk.SpkQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	records, err := SearchSpksFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
