package item

import (
	"net/http"

	"spkwork/misc"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathItems = "/v1/items"

func RegisterItemsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathItems, middleWares...)
	g.GET("", HandleQueryItems)
	g.POST("", HandleCreateItem)
	g.GET("/:id", HandleDetailItem)
	g.PUT("/:id", HandleUpdateItem)
	g.DELETE("/:id", HandleDeleteItem)

	g.POST("/:id/rates", HandleAddItemRate)
	g.PUT("/:id/rates/:rateCode", HandleUpdateItemRate)
	g.DELETE("/:id/rates/:rateCode", HandleRemoveItemRate)
	g.PUT("/:id/rates/:rateCode/activation", HandleActivateItemRate)

	c := r.Group("/v1/categories", middleWares...)
	c.GET("", HandleQueryCategories)
	c.GET("/:id/sub-categories", HandleQuerySubCategories)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&misc.ErrBadParam{Cause: err})
	}
	return id
}

func HandleQueryItems(c *gin.Context) {
	query := ItemQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(err)
	}
	details, err := QueryItemsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, details)
}

func HandleCreateItem(c *gin.Context) {
	creation := ItemCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	detail, err := CreateItemFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func HandleDetailItem(c *gin.Context) {
	session.ExtractSessionFromGinContext(c)
	detail, err := DetailItemFunc(parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func HandleUpdateItem(c *gin.Context) {
	updating := ItemUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	detail, err := UpdateItemFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func HandleDeleteItem(c *gin.Context) {
	if err := DeleteItemFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func HandleAddItemRate(c *gin.Context) {
	creation := ItemRateCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(err)
	}
	detail, err := AddItemRateFunc(parseIdParam(c), &creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func HandleUpdateItemRate(c *gin.Context) {
	updating := ItemRateUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(err)
	}
	detail, err := UpdateItemRateFunc(parseIdParam(c), c.Param("rateCode"), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func HandleRemoveItemRate(c *gin.Context) {
	detail, err := RemoveItemRateFunc(parseIdParam(c), c.Param("rateCode"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func HandleQueryCategories(c *gin.Context) {
	records, err := QueryCategoriesFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleQuerySubCategories(c *gin.Context) {
	records, err := QuerySubCategoriesFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func HandleActivateItemRate(c *gin.Context) {
	detail, err := ActivateItemRateFunc(parseIdParam(c), c.Param("rateCode"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}
