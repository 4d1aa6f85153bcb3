package main

import (
	"log"
	"net/http"

	"spkwork/account"
	"spkwork/bizerror"
	"spkwork/client/es"
	"spkwork/common"
	"spkwork/domain/costing"
	"spkwork/domain/item"
	"spkwork/domain/progress"
	"spkwork/domain/rate"
	"spkwork/domain/solar"
	"spkwork/domain/spk"
	"spkwork/event"
	"spkwork/indices"
	"spkwork/indices/search"
	"spkwork/infra/tracing"
	"spkwork/persistence"
	"spkwork/servehttp"
	"spkwork/session"
	"spkwork/sessions"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	tracingCloser, err := tracing.Bootstrap(common.GetServiceName())
	if err != nil {
		log.Fatalf("tracing bootstrap failed %v\n", err)
	}
	defer tracingCloser.Close()

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database conneciton failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&account.User{},
		&rate.Rate{},
		&item.Item{}, &item.ItemRate{}, &item.Category{}, &item.SubCategory{},
		&solar.SolarPrice{},
		&spk.Spk{}, &spk.SpkItem{}, &spk.SpkStatusLog{},
		&costing.ItemCost{}, &costing.MaterialUnit{},
		&progress.SpkProgress{}, &progress.ProgressItem{}, &progress.CostEntry{},
		&event.EventRecord{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.BootstrapSuperAdmin(); err != nil {
		log.Fatalf("bootstrap super admin failed %v\n", err)
	}

	es.CreateClientFromEnv()
	event.EventHandlers = append(event.EventHandlers, indices.IndexSpkEventHandle)

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	sessions.RegisterSessionsHandler(engine)

	auth := session.SimpleAuthFilter()
	account.RegisterUsersHandler(engine, auth)
	rate.RegisterRatesHandler(engine, auth)
	item.RegisterItemsHandler(engine, auth)
	solar.RegisterSolarPricesHandler(engine, auth)
	spk.RegisterSpksHandler(engine, auth)
	costing.RegisterCostingHandler(engine, auth)
	progress.RegisterProgressesHandler(engine, auth)
	indices.RegisterIndicesRestAPI(engine, auth)
	search.RegisterSpkSearchRestAPI(engine, auth)

	servehttp.StartHTTPServer(engine)
}
