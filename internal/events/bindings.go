package events

import (
	"context"

	"smartcare/internal/alerts"
	"smartcare/internal/config"
	"smartcare/internal/hospitals"
	"smartcare/internal/instructions"
	"smartcare/internal/triage"
)

// Event field names.
const (
	FieldCareMode = "careMode"
	FieldFeature  = "feature"
	FieldQuery    = "query"
	FieldSymptom  = "symptom"
)

// CareModeHome selects doctor-at-home assistance on the booking form.
const CareModeHome = "home"

// HospitalSource lists hospitals. Failures surface as an empty list.
type HospitalSource interface {
	Hospitals(ctx context.Context) []hospitals.Record
}

// Deps are the components the page bindings drive.
type Deps struct {
	Triage       *triage.Table
	Instructions *instructions.Catalog
	Catalog      *config.Catalog
	Alerts       *alerts.Board
	Hospitals    HospitalSource

	// OnClassify, if set, is told about every triage lookup.
	OnClassify func(symptom string, c triage.Classification)
}

// Bind registers the page's handlers on d.
func Bind(d *Dispatcher, deps Deps) {
	d.Register(BookingSubmitted, bookingSubmitted)
	d.Register(FeatureClicked, featureClicked(deps.Catalog, deps.Alerts))
	d.Register(InstructionsWanted, instructionsWanted(deps.Instructions))
	d.Register(TriageRequested, triageRequested(deps.Triage, deps.OnClassify))
	if deps.Hospitals != nil {
		d.Register(HospitalSearched, hospitalSearched(deps.Hospitals))
	}
}

func bookingSubmitted(_ context.Context, e Event) Outcome {
	if e.Field(FieldCareMode) == CareModeHome {
		return Outcome{Status: &StatusBox{
			Class:    "alert alert-success mt-4",
			Icon:     "🚑",
			Headline: "Help is on the way!",
			Detail:   "A doctor has been assigned.",
		}}
	}
	return Outcome{Status: &StatusBox{
		Class:     "alert alert-info mt-4",
		Icon:      "🏥",
		Headline:  "Hospital Assistance Confirmed",
		Detail:    "Please proceed to the emergency ward.",
		LineBreak: true,
	}}
}

func featureClicked(cat *config.Catalog, board *alerts.Board) Handler {
	return func(_ context.Context, e Event) Outcome {
		f := cat.GetFeature(e.Field(FieldFeature))
		if f == nil {
			return Outcome{}
		}
		switch f.Action {
		case config.ActionRedirect:
			return Outcome{Redirect: f.Target}
		case config.ActionAlert:
			if board == nil {
				return Outcome{}
			}
			a := board.Present(e.Scope, f.Message, alerts.ParseKind(f.Kind))
			return Outcome{Alert: &a}
		}
		return Outcome{}
	}
}

func instructionsWanted(cat *instructions.Catalog) Handler {
	return func(_ context.Context, e Event) Outcome {
		steps, found := cat.For(e.Field(FieldSymptom))
		if !found {
			return Outcome{}
		}
		return Outcome{Steps: steps, StepsFound: true}
	}
}

func triageRequested(table *triage.Table, observe func(string, triage.Classification)) Handler {
	return func(_ context.Context, e Event) Outcome {
		symptom := e.Field(FieldSymptom)
		c := table.Classify(symptom)
		if observe != nil {
			observe(symptom, c)
		}
		return Outcome{Classification: &c}
	}
}

func hospitalSearched(src HospitalSource) Handler {
	return func(ctx context.Context, e Event) Outcome {
		return Outcome{Cards: hospitals.Filter(src.Hospitals(ctx), e.Field(FieldQuery))}
	}
}
