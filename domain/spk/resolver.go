package spk

import (
	"spkwork/bizerror"
	"spkwork/domain/item"

	"github.com/fundwit/go-commons/types"
)

var ResolveLineItemFunc = ResolveLineItem

// ResolveLineItem freezes the referenced item's price for the given rate code
// onto a new line. Resolution happens exactly once, at the time the line is
// first persisted; the snapshot is never refreshed afterwards.
func ResolveLineItem(itemId types.ID, rateCode string, quantity Quantity) (*SpkItem, error) {
	it, err := item.DetailItemFunc(itemId)
	if err != nil {
		return nil, err
	}

	for _, entry := range it.Rates {
		if entry.RateCode == rateCode {
			unitRate := UnitRate{NonRemoteAreas: entry.NonRemoteAreas, RemoteAreas: entry.RemoteAreas}
			return &SpkItem{
				ItemID:   it.ID,
				ItemCode: it.ItemCode,
				RateCode: rateCode,
				Quantity: quantity,
				UnitRate: unitRate,
				Amount:   ComputeLineAmount(unitRate, quantity),
			}, nil
		}
	}
	return nil, &bizerror.ErrRateNotApplicable{ItemCode: it.ItemCode, RateCode: rateCode}
}

func ComputeLineAmount(rate UnitRate, quantity Quantity) float64 {
	return rate.NonRemoteAreas*quantity.NonRemoteQty + rate.RemoteAreas*quantity.RemoteQty
}

// SumLineAmounts recomputes the work order total from scratch, never
// incrementally, so partial updates cannot introduce drift.
func SumLineAmounts(items []SpkItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Amount
	}
	return total
}
