package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/limaJavier/timetabling-ga/pkg/ga"
	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var Days = map[int]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
	6: "Sunday",
}

type DaySchedule struct {
	Day    string   `json:"day"`
	Blocks []string `json:"blocks"`
}

type Output struct {
	RunId                    uuid.UUID                `json:"runId"`
	Seed                     uint64                   `json:"seed"`
	Config                   ga.Config                `json:"config"`
	BestFitness              int                      `json:"bestFitness"`
	GlobalOptimum            bool                     `json:"globalOptimum"`
	Generations              int                      `json:"generations"`
	BestFitnessPerGeneration []int                    `json:"bestFitnessPerGeneration"`
	Timetable                map[string][]DaySchedule `json:"timetable"`
}

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to a JSON file overriding the GA_* environment configuration")
	selectionPtr := flag.String("selection", "", "Selection algorithm. Allowed values are: \"fitness_proportionate\", \"ranking\" and \"tournament\"; if empty, the configured one is used")
	crossoverPtr := flag.String("crossover", "", "Crossover operator. Allowed values are: \"uniform_day\", \"uniform_block\", \"single_point_day\" and \"single_point_block\"; if empty, the configured one is used")
	mutationPtr := flag.String("mutation", "", "Mutation operator. Allowed values are: \"block_swap\", \"block_inversion\" and \"block_scramble\"; if empty, the configured one is used")
	seedPtr := flag.Uint64("seed", 0, "Seed of the random source; if 0, the configured seed (or a fresh one) is used")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	verbosePtr := flag.Bool("verbose", false, "Log the progress of every generation to the Standard Error")
	flag.Parse()
	selection := ga.SelectionType(strings.ToLower(*selectionPtr))
	crossover := ga.CrossoverType(strings.ToLower(*crossoverPtr))
	mutation := ga.MutationType(strings.ToLower(*mutationPtr))
	outFile := *outFilePathPtr

	// Validate arguments
	if selection != "" && !slices.Contains(ga.SelectionTypes, selection) {
		log.Fatalf("%v is not a valid selection algorithm", selection)
	} else if crossover != "" && !slices.Contains(ga.CrossoverTypes, crossover) {
		log.Fatalf("%v is not a valid crossover operator", crossover)
	} else if mutation != "" && !slices.Contains(ga.MutationTypes, mutation) {
		log.Fatalf("%v is not a valid mutation operator", mutation)
	}

	// Build configuration: environment, then file, then flags
	config, err := ga.ConfigFromEnv()
	if err != nil {
		log.Fatalf("cannot read configuration from environment: %v", err)
	}
	if *configPathPtr != "" {
		if config, err = ga.ConfigFromJson(*configPathPtr, config); err != nil {
			log.Fatalf("cannot read configuration file: %v", err)
		}
	}
	config = overrideConfig(config, selection, crossover, mutation, *seedPtr)
	if config.Seed == 0 {
		config.Seed = rand.Uint64()
	}

	var logger *slog.Logger
	if *verbosePtr {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	// Initialize engine
	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))
	algorithm, err := ga.NewGeneticAlgorithm(config, rng, logger)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	population, err := model.CreatePopulation(rng, config.PopulationSpec())
	if err != nil {
		log.Fatalf("cannot create population: %v", err)
	}

	// Evolve timetable
	result, err := algorithm.Evolve(population)
	if err != nil {
		log.Fatalf("an error occurred during evolution: %v", err)
	}

	// Marshal output into json
	outputJson, err := json.MarshalIndent(buildOutput(config, result), "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else {
		err := os.WriteFile(outFile, outputJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	if result.GlobalOptimum {
		os.Exit(10)
	}
	os.Exit(20)
}

// Flags take precedence over the environment and the configuration file
func overrideConfig(config ga.Config, selection ga.SelectionType, crossover ga.CrossoverType, mutation ga.MutationType, seed uint64) ga.Config {
	if selection != "" {
		config.Selection = selection
	}
	if crossover != "" {
		config.Crossover = crossover
	}
	if mutation != "" {
		config.Mutation = mutation
	}
	if seed != 0 {
		config.Seed = seed
	}
	return config
}

func buildOutput(config ga.Config, result ga.Result) Output {
	timetable := make(map[string][]DaySchedule)
	for turn, schedule := range result.Best {
		timetable[fmt.Sprintf("Class_%v", turn+1)] = lo.Map(schedule, func(day model.Day, index int) DaySchedule {
			return DaySchedule{
				Day:    dayName(index),
				Blocks: lo.Map(day, func(block model.Block, _ int) string { return block.String() }),
			}
		})
	}

	return Output{
		RunId:                    uuid.New(),
		Seed:                     config.Seed,
		Config:                   config,
		BestFitness:              result.BestFitness,
		GlobalOptimum:            result.GlobalOptimum,
		Generations:              result.Generations,
		BestFitnessPerGeneration: result.BestFitnessPerGeneration,
		Timetable:                timetable,
	}
}

func dayName(day int) string {
	if name, ok := Days[day]; ok {
		return name
	}
	return fmt.Sprintf("Day_%v", day+1)
}
