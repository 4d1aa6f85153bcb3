package solar

import (
	"net/http"

	"spkwork/misc"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathSolarPrices = "/v1/solar-prices"

func RegisterSolarPricesHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSolarPrices, middleWares...)
	g.GET("", HandleQuerySolarPrices)
	g.POST("", HandleCreateSolarPrice)
	g.GET("/latest", HandleLatestSolarPrice)
	g.PUT("/:id", HandleUpdateSolarPrice)
	g.DELETE("/:id", HandleDeleteSolarPrice)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	return id
}

func HandleQuerySolarPrices(c *gin.Context) {
	records, err := QuerySolarPricesFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleCreateSolarPrice(c *gin.Context) {
	creation := SolarPriceCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	record, err := CreateSolarPriceFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func HandleLatestSolarPrice(c *gin.Context) {
	session.ExtractSessionFromGinContext(c)
	record, err := LatestSolarPriceFunc()
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleUpdateSolarPrice(c *gin.Context) {
	updating := SolarPriceCreation{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	record, err := UpdateSolarPriceFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleDeleteSolarPrice(c *gin.Context) {
	if err := DeleteSolarPriceFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
