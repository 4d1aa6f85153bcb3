package spk

import (
	"net/http"

	"spkwork/bizerror"
	"spkwork/misc"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathSpks = "/v1/spks"

func RegisterSpksHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSpks, middleWares...)
	g.GET("", HandleQuerySpks)
	g.POST("", HandleCreateSpk)
	g.GET("/:id", HandleDetailSpk)
	g.PUT("/:id", HandleUpdateSpk)
	g.DELETE("/:id", HandleDeleteSpk)

	g.POST("/:id/status-transitions", HandleTransitionSpkStatus)
	g.GET("/:id/status-logs", HandleQueryStatusLogs)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	return id
}

func HandleQuerySpks(c *gin.Context) {
	query := SpkQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	records, err := QuerySpksFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleCreateSpk(c *gin.Context) {
	creation := SpkCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	record, err := CreateSpkFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func HandleDetailSpk(c *gin.Context) {
	record, err := DetailSpkFunc(parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleUpdateSpk(c *gin.Context) {
	// status must go through the transition endpoint
	raw := map[string]interface{}{}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		panic(err)
	}
	if _, found := raw["status"]; found {
		panic(&bizerror.ErrStatusNotUpdatable{})
	}

	updating := SpkUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	record, err := UpdateSpkFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleDeleteSpk(c *gin.Context) {
	if err := DeleteSpkFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func HandleTransitionSpkStatus(c *gin.Context) {
	request := StatusTransitionRequest{}
	if err := c.ShouldBindBodyWith(&request, binding.JSON); err != nil {
		panic(err)
	}
	record, err := TransitionSpkStatusFunc(parseIdParam(c), request.Status, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleQueryStatusLogs(c *gin.Context) {
	records, err := QueryStatusLogsFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
