package progress_test

import (
	"context"
	"testing"
	"time"

	"spkwork/bizerror"
	"spkwork/domain/costing"
	"spkwork/domain/item"
	"spkwork/domain/progress"
	"spkwork/domain/solar"
	"spkwork/domain/spk"
	"spkwork/event"
	"spkwork/persistence"
	"spkwork/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

func progressTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) (*spk.SpkDetail, *costing.ItemCost) {
	db := testinfra.StartMysqlTestDatabase("spkwork")
	*testDatabase = db
	Expect(db.DS.GormDB(context.Background()).AutoMigrate(
		&spk.Spk{}, &spk.SpkItem{}, &item.Item{}, &item.ItemRate{},
		&costing.ItemCost{}, &costing.MaterialUnit{},
		&progress.SpkProgress{}, &progress.ProgressItem{}, &progress.CostEntry{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS

	item.DetailItemFunc = item.DetailItem
	spk.ResolveLineItemFunc = spk.ResolveLineItem
	spk.DetailSpkFunc = spk.DetailSpk
	costing.DetailItemCostFunc = costing.DetailItemCost
	costing.DetailMaterialUnitFunc = costing.DetailMaterialUnit
	costing.MaterialUnitNameFunc = costing.MaterialUnitName

	solar.LatestSolarPriceFunc = func() (*solar.SolarPrice, error) {
		return &solar.SolarPrice{Price: 15000, Currency: "IDR"}, nil
	}
	event.EventPersistCreateFunc = func(record *event.EventRecord, db *gorm.DB) error {
		return nil
	}
	event.InvokeHandlersFunc = func(record *event.EventRecord) []event.EventHandleResult {
		return nil
	}

	sec := testinfra.BuildSecCtx(100, "admin")
	catalogItem, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
		Rates: []item.ItemRateCreation{{RateCode: "R2021", NonRemoteAreas: 2000, RemoteAreas: 3500, IsActive: true}}},
		sec)
	Expect(err).To(BeNil())

	spkDetail, err := spk.CreateSpk(&spk.SpkCreation{SpkNo: "SPK-2021-001", SpkTitle: "site works",
		ProjectStartDate: types.TimestampOfDate(2021, 6, 1, 0, 0, 0, 0, time.Local),
		ProjectEndDate:   types.TimestampOfDate(2021, 9, 1, 0, 0, 0, 0, time.Local),
		Items: []spk.SpkItemCreation{{ItemID: catalogItem.ID, RateCode: "R2021",
			Quantity: spk.Quantity{NonRemoteQty: 100, RemoteQty: 50}}}}, sec)
	Expect(err).To(BeNil())

	costDef, err := costing.CreateItemCost(&costing.ItemCostCreation{Name: "operator",
		Category: costing.CategoryManpower, CostPerHour: 50000}, sec)
	Expect(err).To(BeNil())

	return spkDetail, costDef
}

func progressTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestCreateProgress(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should freeze spk line snapshots and persist recomputed totals", func(t *testing.T) {
		defer progressTestTeardown(t, testDatabase)
		spkDetail, costDef := progressTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(200, "mandor")

		detail, err := progress.CreateProgress(&progress.ProgressCreation{
			SpkID:        spkDetail.ID,
			ProgressDate: types.TimestampOfDate(2021, 7, 1, 0, 0, 0, 0, time.Local),
			Items: []progress.ProgressItemCreation{{ItemID: spkDetail.Items[0].ItemID, RateCode: "R2021",
				WorkQty: spk.Quantity{NonRemoteQty: 10, RemoteQty: 5}}},
			Costs: []progress.CostEntryCreation{{ItemCostID: costDef.ID,
				Inputs: costing.CostInputs{HoursWorked: 8, Headcount: 3}}},
		}, sec)
		Expect(err).To(BeNil())
		Expect(detail.ReporterID).To(Equal(types.ID(200)))

		Expect(detail.Items[0].ItemCode).To(Equal("EXC-001"))
		Expect(detail.Items[0].EstQty).To(Equal(spk.Quantity{NonRemoteQty: 100, RemoteQty: 50}))
		Expect(detail.Items[0].UnitRate).To(Equal(spk.UnitRate{NonRemoteAreas: 2000, RemoteAreas: 3500}))
		Expect(detail.Items[0].Amount).To(Equal(float64(10*2000 + 5*3500)))
		Expect(detail.Costs[0].ComputedCost).To(Equal(float64(50000 * 8 * 3)))
		Expect(detail.Costs[0].ComputedUnit).To(Equal("man-hour"))
		// fuel price defaults to the spk snapshot
		Expect(detail.Costs[0].Inputs.FuelPrice).To(Equal(float64(15000)))

		Expect(detail.TotalProgressItem).To(Equal(float64(37500)))
		Expect(detail.TotalCostUsed).To(Equal(float64(1200000)))
		Expect(detail.GrandTotal).To(Equal(float64(1237500)))

		loaded, err := progress.DetailProgress(detail.ID)
		Expect(err).To(BeNil())
		Expect(loaded.GrandTotal).To(Equal(detail.GrandTotal))
		Expect(len(loaded.Items)).To(Equal(1))
		Expect(len(loaded.Costs)).To(Equal(1))
	})

	t.Run("should reject a line that is not on the spk", func(t *testing.T) {
		defer progressTestTeardown(t, testDatabase)
		spkDetail, _ := progressTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(200, "mandor")

		_, err := progress.CreateProgress(&progress.ProgressCreation{
			SpkID:        spkDetail.ID,
			ProgressDate: types.TimestampOfDate(2021, 7, 1, 0, 0, 0, 0, time.Local),
			Items: []progress.ProgressItemCreation{{ItemID: 404, RateCode: "R2021",
				WorkQty: spk.Quantity{NonRemoteQty: 1}}},
		}, sec)
		Expect(err).To(Equal(&bizerror.ErrReferenceNotFound{EntityType: "spk-line-item", ID: 404}))
	})
}

func TestUpdateProgress(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should fully recompute totals on every save", func(t *testing.T) {
		defer progressTestTeardown(t, testDatabase)
		spkDetail, costDef := progressTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(200, "mandor")

		detail, err := progress.CreateProgress(&progress.ProgressCreation{
			SpkID:        spkDetail.ID,
			ProgressDate: types.TimestampOfDate(2021, 7, 1, 0, 0, 0, 0, time.Local),
			Items: []progress.ProgressItemCreation{{ItemID: spkDetail.Items[0].ItemID, RateCode: "R2021",
				WorkQty: spk.Quantity{NonRemoteQty: 10, RemoteQty: 5}}},
			Costs: []progress.CostEntryCreation{{ItemCostID: costDef.ID,
				Inputs: costing.CostInputs{HoursWorked: 8, Headcount: 3}}},
		}, sec)
		Expect(err).To(BeNil())

		newItems := []progress.ProgressItemCreation{{ItemID: spkDetail.Items[0].ItemID, RateCode: "R2021",
			WorkQty: spk.Quantity{NonRemoteQty: 20}}}
		newCosts := []progress.CostEntryCreation{}
		updated, err := progress.UpdateProgress(detail.ID,
			&progress.ProgressUpdating{Items: &newItems, Costs: &newCosts}, sec)
		Expect(err).To(BeNil())

		Expect(updated.TotalProgressItem).To(Equal(float64(20 * 2000)))
		Expect(updated.TotalCostUsed).To(BeZero())
		Expect(updated.GrandTotal).To(Equal(float64(40000)))
		Expect(len(updated.Costs)).To(BeZero())
	})
}

func TestDeleteProgress(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should delete the report with its rows", func(t *testing.T) {
		defer progressTestTeardown(t, testDatabase)
		spkDetail, costDef := progressTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(200, "mandor")

		detail, err := progress.CreateProgress(&progress.ProgressCreation{
			SpkID:        spkDetail.ID,
			ProgressDate: types.TimestampOfDate(2021, 7, 1, 0, 0, 0, 0, time.Local),
			Items: []progress.ProgressItemCreation{{ItemID: spkDetail.Items[0].ItemID, RateCode: "R2021",
				WorkQty: spk.Quantity{NonRemoteQty: 1}}},
			Costs: []progress.CostEntryCreation{{ItemCostID: costDef.ID,
				Inputs: costing.CostInputs{HoursWorked: 1, Headcount: 1}}},
		}, sec)
		Expect(err).To(BeNil())

		Expect(progress.DeleteProgress(detail.ID, sec)).To(BeNil())

		_, err = progress.DetailProgress(detail.ID)
		Expect(err).To(Equal(&bizerror.ErrReferenceNotFound{EntityType: "spk-progress", ID: detail.ID}))

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		var itemCount, costCount int
		Expect(db.Model(&progress.ProgressItem{}).Where("progress_id = ?", detail.ID).Count(&itemCount).Error).To(BeNil())
		Expect(db.Model(&progress.CostEntry{}).Where("progress_id = ?", detail.ID).Count(&costCount).Error).To(BeNil())
		Expect(itemCount).To(BeZero())
		Expect(costCount).To(BeZero())
	})
}
