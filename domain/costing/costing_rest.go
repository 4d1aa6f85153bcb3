package costing

import (
	"net/http"

	"spkwork/misc"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	PathItemCosts     = "/v1/item-costs"
	PathMaterialUnits = "/v1/material-units"
)

func RegisterCostingHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathItemCosts, middleWares...)
	g.GET("", HandleQueryItemCosts)
	g.POST("", HandleCreateItemCost)
	g.GET("/:id", HandleDetailItemCost)
	g.PUT("/:id", HandleUpdateItemCost)
	g.DELETE("/:id", HandleDeleteItemCost)

	u := r.Group(PathMaterialUnits, middleWares...)
	u.GET("", HandleQueryMaterialUnits)
	u.POST("", HandleCreateMaterialUnit)
	u.DELETE("/:id", HandleDeleteMaterialUnit)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	return id
}

func HandleQueryItemCosts(c *gin.Context) {
	query := ItemCostQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	records, err := QueryItemCostsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleCreateItemCost(c *gin.Context) {
	creation := ItemCostCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	record, err := CreateItemCostFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func HandleDetailItemCost(c *gin.Context) {
	record, err := DetailItemCostFunc(parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleUpdateItemCost(c *gin.Context) {
	updating := ItemCostUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	record, err := UpdateItemCostFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func HandleDeleteItemCost(c *gin.Context) {
	if err := DeleteItemCostFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func HandleQueryMaterialUnits(c *gin.Context) {
	records, err := QueryMaterialUnitsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleCreateMaterialUnit(c *gin.Context) {
	creation := MaterialUnitCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	record, err := CreateMaterialUnitFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func HandleDeleteMaterialUnit(c *gin.Context) {
	if err := DeleteMaterialUnitFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
