package item_test

import (
	"context"
	"testing"

	"spkwork/bizerror"
	"spkwork/domain/item"
	"spkwork/persistence"
	"spkwork/testinfra"

	. "github.com/onsi/gomega"
)

func itemTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("spkwork")
	*testDatabase = db
	Expect(db.DS.GormDB(context.Background()).AutoMigrate(&item.Item{}, &item.ItemRate{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS
}

func itemTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func activeRateCodes(detail *item.ItemDetail) []string {
	codes := []string{}
	for _, r := range detail.Rates {
		if r.IsActive {
			codes = append(codes, r.RateCode)
		}
	}
	return codes
}

func TestCreateItem(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should reject duplicated or multi-active rate entries", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		_, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{{RateCode: "R2021"}, {RateCode: "R2021"}}}, sec)
		Expect(err).To(Equal(&bizerror.ErrDuplicateRateCode{RateCode: "R2021"}))

		_, err = item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{{RateCode: "R2020", IsActive: true}, {RateCode: "R2021", IsActive: true}}}, sec)
		Expect(err).ToNot(BeNil())
	})

	t.Run("should create item with its rate entries in order", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		detail, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{
				{RateCode: "R2020", NonRemoteAreas: 1000, RemoteAreas: 1500},
				{RateCode: "R2021", NonRemoteAreas: 2000, RemoteAreas: 3500, IsActive: true},
			}}, sec)
		Expect(err).To(BeNil())
		Expect(len(detail.Rates)).To(Equal(2))
		Expect(activeRateCodes(detail)).To(Equal([]string{"R2021"}))

		loaded, err := item.DetailItem(detail.ID)
		Expect(err).To(BeNil())
		Expect(loaded.Rates[0].RateCode).To(Equal("R2020"))
		Expect(loaded.Rates[1].RateCode).To(Equal("R2021"))
	})

	t.Run("should block non admin users", func(t *testing.T) {
		_, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1},
			testinfra.BuildSecCtx(200, "mandor"))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestAddItemRate(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should keep at most one rate active when adding an active entry", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		detail, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{{RateCode: "R2020", NonRemoteAreas: 1000, IsActive: true}}}, sec)
		Expect(err).To(BeNil())

		detail, err = item.AddItemRate(detail.ID, &item.ItemRateCreation{RateCode: "R2021",
			NonRemoteAreas: 2000, RemoteAreas: 3500, IsActive: true}, sec)
		Expect(err).To(BeNil())
		Expect(len(detail.Rates)).To(Equal(2))
		Expect(activeRateCodes(detail)).To(Equal([]string{"R2021"}))

		// inactive entries leave the active one alone
		detail, err = item.AddItemRate(detail.ID, &item.ItemRateCreation{RateCode: "R2022", NonRemoteAreas: 2500}, sec)
		Expect(err).To(BeNil())
		Expect(activeRateCodes(detail)).To(Equal([]string{"R2021"}))
	})

	t.Run("should reject duplicated rate code and unknown item", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		detail, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{{RateCode: "R2020"}}}, sec)
		Expect(err).To(BeNil())

		_, err = item.AddItemRate(detail.ID, &item.ItemRateCreation{RateCode: "R2020"}, sec)
		Expect(err).To(Equal(&bizerror.ErrDuplicateRateCode{RateCode: "R2020"}))

		_, err = item.AddItemRate(404, &item.ItemRateCreation{RateCode: "R2020"}, sec)
		Expect(err).To(Equal(&bizerror.ErrReferenceNotFound{EntityType: "item", ID: 404}))
	})
}

func TestActivateItemRate(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should flip the single active entry", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		detail, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{
				{RateCode: "R2020", IsActive: true}, {RateCode: "R2021"},
			}}, sec)
		Expect(err).To(BeNil())

		detail, err = item.ActivateItemRate(detail.ID, "R2021", sec)
		Expect(err).To(BeNil())
		Expect(activeRateCodes(detail)).To(Equal([]string{"R2021"}))
	})

	t.Run("should keep the previous active entry when the requested code is unknown", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		detail, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{{RateCode: "R2020", IsActive: true}}}, sec)
		Expect(err).To(BeNil())

		_, err = item.ActivateItemRate(detail.ID, "R2099", sec)
		Expect(err).To(Equal(&bizerror.ErrRateNotFound{RateCode: "R2099"}))

		// the transaction rolled back, R2020 is still active
		loaded, err := item.DetailItem(detail.ID)
		Expect(err).To(BeNil())
		Expect(activeRateCodes(loaded)).To(Equal([]string{"R2020"}))
	})
}

func TestUpdateItemRate(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should update prices without touching activation", func(t *testing.T) {
		defer itemTestTeardown(t, testDatabase)
		itemTestSetup(t, &testDatabase)
		sec := testinfra.BuildSecCtx(100, "admin")

		detail, err := item.CreateItem(&item.ItemCreation{ItemCode: "EXC-001", UnitMeasurement: "m3", CategoryID: 1,
			Rates: []item.ItemRateCreation{{RateCode: "R2020", NonRemoteAreas: 1000, IsActive: true}}}, sec)
		Expect(err).To(BeNil())

		detail, err = item.UpdateItemRate(detail.ID, "R2020",
			&item.ItemRateUpdating{NonRemoteAreas: 1200, RemoteAreas: 1800}, sec)
		Expect(err).To(BeNil())
		Expect(detail.Rates[0].NonRemoteAreas).To(Equal(float64(1200)))
		Expect(detail.Rates[0].RemoteAreas).To(Equal(float64(1800)))
		Expect(detail.Rates[0].IsActive).To(BeTrue())

		_, err = item.UpdateItemRate(detail.ID, "R2099", &item.ItemRateUpdating{NonRemoteAreas: 1}, sec)
		Expect(err).To(Equal(&bizerror.ErrRateNotFound{RateCode: "R2099"}))
	})
}
