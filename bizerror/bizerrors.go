package bizerror

import (
	"errors"
	"fmt"
	"net/http"

	"spkwork/misc"

	"github.com/fundwit/go-commons/types"
)

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("forbidden")
var ErrNoContent = errors.New("no content")

// ErrReferenceNotFound reports a dangling reference to an item, cost
// definition, work order or similar entity.
type ErrReferenceNotFound struct {
	EntityType string
	ID         types.ID
}

func (e *ErrReferenceNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.EntityType, e.ID)
}
func (e *ErrReferenceNotFound) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusNotFound, Code: "common.reference_not_found",
		Message: e.Error(), Data: map[string]string{"entityType": e.EntityType, "id": e.ID.String()}}
}

// ErrRateNotApplicable reports a rate code that is not present on the
// referenced item. Distinct from ErrReferenceNotFound so callers can name
// the missing rate code.
type ErrRateNotApplicable struct {
	ItemCode string
	RateCode string
}

func (e *ErrRateNotApplicable) Error() string {
	return fmt.Sprintf("rate code %s not found for item %s", e.RateCode, e.ItemCode)
}
func (e *ErrRateNotApplicable) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusBadRequest, Code: "rate.not_applicable",
		Message: e.Error(), Data: map[string]string{"itemCode": e.ItemCode, "rateCode": e.RateCode}}
}

type ErrDuplicateRateCode struct {
	RateCode string
}

func (e *ErrDuplicateRateCode) Error() string {
	return fmt.Sprintf("rate code %s already exists", e.RateCode)
}
func (e *ErrDuplicateRateCode) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusBadRequest, Code: "rate.duplicated",
		Message: e.Error(), Data: map[string]string{"rateCode": e.RateCode}}
}

type ErrRateNotFound struct {
	RateCode string
}

func (e *ErrRateNotFound) Error() string {
	return fmt.Sprintf("rate code %s not found", e.RateCode)
}
func (e *ErrRateNotFound) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusNotFound, Code: "rate.not_found",
		Message: e.Error(), Data: map[string]string{"rateCode": e.RateCode}}
}

type ErrInvalidStatusTransition struct {
	SpkID types.ID
	From  string
	To    string
}

func (e *ErrInvalidStatusTransition) Error() string {
	return fmt.Sprintf("cannot transition spk %d from %s to %s", e.SpkID, e.From, e.To)
}
func (e *ErrInvalidStatusTransition) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusBadRequest, Code: "spk.invalid_status_transition",
		Message: e.Error(), Data: map[string]string{"spkId": e.SpkID.String(), "from": e.From, "to": e.To}}
}

// ErrStatusNotUpdatable rejects status changes arriving through the generic
// update path, transitions are only accepted by the dedicated operation.
type ErrStatusNotUpdatable struct {
}

func (e *ErrStatusNotUpdatable) Error() string {
	return "status can only be changed through a status transition"
}
func (e *ErrStatusNotUpdatable) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusBadRequest, Code: "spk.status_not_updatable",
		Message: e.Error()}
}

type ErrMissingRequiredDetail struct {
	Category string
	Field    string
}

func (e *ErrMissingRequiredDetail) Error() string {
	return fmt.Sprintf("%s is required for %s category", e.Field, e.Category)
}
func (e *ErrMissingRequiredDetail) Respond() *misc.BizErrorDetail {
	return &misc.BizErrorDetail{Status: http.StatusBadRequest, Code: "cost.missing_required_detail",
		Message: e.Error(), Data: map[string]string{"category": e.Category, "field": e.Field}}
}
