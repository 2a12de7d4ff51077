package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/director.txt
	directorRaw string

	//go:embed template/weather.txt
	weatherRaw string

	//go:embed template/flight.txt
	flightRaw string

	//go:embed template/location.txt
	locationRaw string

	//go:embed template/prediction.txt
	predictionRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Director   string
	Weather    string
	Flight     string
	Location   string
	Prediction string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Director:   strings.TrimSpace(directorRaw),
		Weather:    strings.TrimSpace(weatherRaw),
		Flight:     strings.TrimSpace(flightRaw),
		Location:   strings.TrimSpace(locationRaw),
		Prediction: strings.TrimSpace(predictionRaw),
	}
}
