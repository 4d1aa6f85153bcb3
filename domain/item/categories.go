package item

import (
	"context"

	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
)

var (
	QueryCategoriesFunc    = QueryCategories
	QuerySubCategoriesFunc = QuerySubCategories
)

// Category and SubCategory are static lookup tables maintained outside this
// service, items only reference them by id.
type Category struct {
	ID   types.ID `json:"id" gorm:"primary_key"`
	Name string   `json:"name" gorm:"unique_index"`
}

type SubCategory struct {
	ID         types.ID `json:"id" gorm:"primary_key"`
	Name       string   `json:"name"`
	CategoryID types.ID `json:"categoryId"`
}

func QueryCategories(sec *session.Context) (*[]Category, error) {
	var records []Category
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func QuerySubCategories(categoryId types.ID, sec *session.Context) (*[]SubCategory, error) {
	var records []SubCategory
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	q := db.Order("name ASC")
	if categoryId != 0 {
		q = q.Where(&SubCategory{CategoryID: categoryId})
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}
