package rate

import (
	"net/http"

	"spkwork/misc"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathRates = "/v1/rates"

func RegisterRatesHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathRates, middleWares...)
	g.GET("", HandleQueryRates)
	g.POST("", HandleCreateRate)
	g.GET("/:id", HandleDetailRate)
	g.PUT("/:id", HandleUpdateRate)
	g.DELETE("/:id", HandleDeleteRate)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	return id
}

func HandleQueryRates(c *gin.Context) {
	records, err := QueryRatesFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleCreateRate(c *gin.Context) {
	creation := RateCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	record, err := CreateRateFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func HandleDetailRate(c *gin.Context) {
	record, err := DetailRateFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleUpdateRate(c *gin.Context) {
	updating := RateUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	record, err := UpdateRateFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleDeleteRate(c *gin.Context) {
	result, err := DeleteRateFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
