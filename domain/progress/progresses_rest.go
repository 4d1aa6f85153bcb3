package progress

import (
	"net/http"

	"spkwork/misc"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathProgresses = "/v1/spk-progresses"

func RegisterProgressesHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathProgresses, middleWares...)
	g.GET("", HandleQueryProgresses)
	g.POST("", HandleCreateProgress)
	g.GET("/:id", HandleDetailProgress)
	g.PUT("/:id", HandleUpdateProgress)
	g.DELETE("/:id", HandleDeleteProgress)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	return id
}

func HandleQueryProgresses(c *gin.Context) {
	query := ProgressQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	records, err := QueryProgressesFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleCreateProgress(c *gin.Context) {
	creation := ProgressCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	record, err := CreateProgressFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func HandleDetailProgress(c *gin.Context) {
	record, err := DetailProgressFunc(parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleUpdateProgress(c *gin.Context) {
	updating := ProgressUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	record, err := UpdateProgressFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleDeleteProgress(c *gin.Context) {
	if err := DeleteProgressFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
