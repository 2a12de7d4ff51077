package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	directorx "github.com/preflightai/preflight/agent/agents/director"
	specialistx "github.com/preflightai/preflight/agent/agents/specialist"
	contractx "github.com/preflightai/preflight/agent/contract"
	llmx "github.com/preflightai/preflight/agent/llm"
	promptx "github.com/preflightai/preflight/agent/prompt"
	aviationstackx "github.com/preflightai/preflight/pkg/aviationstack"
	configx "github.com/preflightai/preflight/pkg/config"
	_ "github.com/preflightai/preflight/pkg/logger/autoload"
	openmeteox "github.com/preflightai/preflight/pkg/openmeteo"
	predictx "github.com/preflightai/preflight/predict"
	flighthistx "github.com/preflightai/preflight/store/flighthist"
)

func main() {
	flightNumber := flag.String("flight", "EK005", "flight IATA code")
	origin := flag.String("origin", "DXB", "origin airport IATA code")
	destination := flag.String("destination", "LHR", "destination airport IATA code")
	departure := flag.String("departure", time.Now().UTC().Add(6*time.Hour).Format(time.RFC3339), "scheduled departure (RFC3339)")

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	weatherCfg := configx.MustNew[openmeteox.Config]("OPENMETEO")
	flightCfg := configx.MustNew[aviationstackx.Config]("AVIATIONSTACK")

	departureTime, err := time.Parse(time.RFC3339, *departure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -departure value")
	}

	ctx := context.Background()
	prompts := promptx.LoadPromptSet()

	weatherClient := openmeteox.MustNew(*weatherCfg)
	flightClient := aviationstackx.MustNew(*flightCfg)

	// local flight history is optional; without a DSN the flight specialist
	// falls back to the AviationStack API
	var store *flighthistx.Store
	if dbCfg, err := configx.New[flighthistx.Config]("FLIGHTDB"); err == nil {
		store, err = flighthistx.New(*dbCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open flight history store")
		}
		defer store.Close()
	} else {
		log.Debug().Msg("flight history store not configured, using API fallback")
	}

	weather, err := specialistx.NewWeather(ctx, reasonerFor(llmCfg, contractx.AgentTypeWeather), prompts.Weather, weatherClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build weather specialist")
	}
	flight, err := specialistx.NewFlight(ctx, reasonerFor(llmCfg, contractx.AgentTypeFlight), prompts.Flight, flightClient, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build flight specialist")
	}
	location, err := specialistx.NewLocation(ctx, reasonerFor(llmCfg, contractx.AgentTypeLocation), prompts.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build location specialist")
	}
	prediction, err := specialistx.NewPrediction(ctx, reasonerFor(llmCfg, contractx.AgentTypePrediction), prompts.Prediction, predictx.NewModel())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build prediction specialist")
	}

	director, err := directorx.New(ctx, directorx.Options{
		Reasoner:     reasonerFor(llmCfg, contractx.AgentTypeDirector),
		SystemPrompt: prompts.Director,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build director")
	}
	director.RegisterSpecialist(contractx.AgentTypeWeather, weather)
	director.RegisterSpecialist(contractx.AgentTypeFlight, flight)
	director.RegisterSpecialist(contractx.AgentTypeLocation, location)
	director.RegisterSpecialist(contractx.AgentTypePrediction, prediction)

	report := director.Coordinate(ctx, contractx.PredictionRequest{
		FlightNumber:  *flightNumber,
		Origin:        *origin,
		Destination:   *destination,
		DepartureTime: departureTime,
	})

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to render report")
	}
	fmt.Println(string(out))
}

func reasonerFor(cfg *llmx.Config, agentType contractx.AgentType) contractx.Reasoner {
	reasoner, err := cfg.NewReasoner(agentType)
	if err != nil {
		log.Fatal().Err(err).Str("agent", string(agentType)).Msg("failed to build reasoner")
	}
	return reasoner
}
