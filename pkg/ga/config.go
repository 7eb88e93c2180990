package ga

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/mitchellh/mapstructure"
)

const EnvPrefix = "GA_"

// Config gathers every parameter of a run: the population dimensions, the generation limit, the operator
// probabilities and the chosen strategies. Defaults reproduce the reference experiment.
type Config struct {
	PopulationSize  int `env:"POPULATION_SIZE" envDefault:"100" json:"populationSize" mapstructure:"populationSize" validate:"min=1"`
	PracticalTurns  int `env:"PRACTICAL_TURNS" envDefault:"10" json:"practicalTurns" mapstructure:"practicalTurns" validate:"min=1"`
	SubjectsPerTurn int `env:"SUBJECTS_PER_TURN" envDefault:"4" json:"subjectsPerTurn" mapstructure:"subjectsPerTurn" validate:"min=1,max=30"`
	DaysPerWeek     int `env:"DAYS_PER_WEEK" envDefault:"5" json:"daysPerWeek" mapstructure:"daysPerWeek" validate:"min=1"`
	BlocksPerDay    int `env:"BLOCKS_PER_DAY" envDefault:"8" json:"blocksPerDay" mapstructure:"blocksPerDay" validate:"min=1"`
	Generations     int `env:"GENERATIONS" envDefault:"500" json:"generations" mapstructure:"generations" validate:"min=1"`

	CrossoverProbability float64 `env:"CROSSOVER_PROBABILITY" envDefault:"0.9" json:"crossoverProbability" mapstructure:"crossoverProbability" validate:"gte=0,lte=1"`
	MutationProbability  float64 `env:"MUTATION_PROBABILITY" envDefault:"0.2" json:"mutationProbability" mapstructure:"mutationProbability" validate:"gte=0,lte=1"`
	Elitism              bool    `env:"ELITISM" envDefault:"true" json:"elitism" mapstructure:"elitism"`
	Sharing              bool    `env:"SHARING" envDefault:"false" json:"sharing" mapstructure:"sharing"`

	Selection      SelectionType `env:"SELECTION" envDefault:"tournament" json:"selection" mapstructure:"selection" validate:"oneof=fitness_proportionate ranking tournament"`
	Crossover      CrossoverType `env:"CROSSOVER" envDefault:"single_point_day" json:"crossover" mapstructure:"crossover" validate:"oneof=uniform_day uniform_block single_point_day single_point_block"`
	Mutation       MutationType  `env:"MUTATION" envDefault:"block_swap" json:"mutation" mapstructure:"mutation" validate:"oneof=block_swap block_inversion block_scramble"`
	TournamentSize int           `env:"TOURNAMENT_SIZE" envDefault:"3" json:"tournamentSize" mapstructure:"tournamentSize" validate:"min=1"`

	Seed uint64 `env:"SEED" envDefault:"0" json:"seed" mapstructure:"seed"` // 0 means a fresh random seed
}

// DefaultConfig returns the configuration obtained from the env defaults alone
func DefaultConfig() Config {
	var config Config
	if err := env.ParseWithOptions(&config, env.Options{Environment: map[string]string{}}); err != nil {
		log.Panicf("cannot apply configuration defaults: %v", err)
	}
	return config
}

// ConfigFromEnv reads GA_-prefixed variables over the defaults
func ConfigFromEnv() (Config, error) {
	var config Config
	if err := env.ParseWithOptions(&config, env.Options{Prefix: EnvPrefix}); err != nil {
		aggregateErr := env.AggregateError{}
		if errors.As(err, &aggregateErr) && len(aggregateErr.Errors) > 0 {
			return Config{}, aggregateErr.Errors[0] // Only the first error keeps the message readable
		}
		return Config{}, err
	}
	return config, nil
}

// ConfigFromJson overlays the keys present in a JSON file on top of base
func ConfigFromJson(file string, base Config) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read configuration file: %w", err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse configuration file: %w", err)
	}

	config := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &config,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(configJson); err != nil {
		return Config{}, fmt.Errorf("cannot decode configuration file: %w", err)
	}
	return config, nil
}

func (config Config) PopulationSpec() model.PopulationSpec {
	return model.PopulationSpec{
		PopulationSize:  config.PopulationSize,
		PracticalTurns:  config.PracticalTurns,
		SubjectsPerTurn: config.SubjectsPerTurn,
		DaysPerWeek:     config.DaysPerWeek,
		BlocksPerDay:    config.BlocksPerDay,
	}
}

// Validate reports the first degenerate parameter as a ConfigurationError
func (config Config) Validate() error {
	validate, translator := configValidator()
	if err := validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		fieldErr := validationErrors[0]
		return &model.ConfigurationError{
			Field:  fieldErr.Field(),
			Reason: strings.TrimPrefix(fieldErr.Translate(translator), fieldErr.Field()+" "),
		}
	}

	return checkOperatorShape(config.Crossover, config.Mutation, config.PopulationSpec().Shape())
}

// Operators the configuration names, ready to be used by the evolution loop
func (config Config) operators() (Selector, Crossover, Mutator, error) {
	selector, err := NewSelector(config.Selection, config.TournamentSize)
	if err != nil {
		return nil, nil, nil, err
	}
	crossover, err := NewCrossover(config.Crossover)
	if err != nil {
		return nil, nil, nil, err
	}
	mutator, err := NewMutator(config.Mutation)
	if err != nil {
		return nil, nil, nil, err
	}
	return selector, crossover, mutator, nil
}

// checkOperatorShape rejects shapes too small for the chosen operators (e.g. an inversion on 2-block days)
func checkOperatorShape(crossover CrossoverType, mutation MutationType, shape model.Shape) error {
	switch {
	case shape.Turns < 1:
		return &model.ConfigurationError{Field: "PracticalTurns", Reason: "must be at least 1"}
	case shape.Days < 1:
		return &model.ConfigurationError{Field: "DaysPerWeek", Reason: "must be at least 1"}
	case shape.Blocks < 1:
		return &model.ConfigurationError{Field: "BlocksPerDay", Reason: "must be at least 1"}
	case crossover == SinglePointDayCrossover && shape.Days < 2:
		return &model.ConfigurationError{Field: "DaysPerWeek", Reason: "must be at least 2 for single-point day crossover"}
	case crossover == SinglePointBlockCrossover && shape.Blocks < 2:
		return &model.ConfigurationError{Field: "BlocksPerDay", Reason: "must be at least 2 for single-point block crossover"}
	case mutation == SwapMutation && shape.Blocks < 2:
		return &model.ConfigurationError{Field: "BlocksPerDay", Reason: "must be at least 2 for swap mutation"}
	case mutation == InversionMutation && shape.Blocks < 3:
		return &model.ConfigurationError{Field: "BlocksPerDay", Reason: "must be at least 3 for inversion mutation"}
	}
	return nil
}

var configValidator = sync.OnceValues(func() (*validator.Validate, ut.Translator) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		log.Panicf("cannot register validation messages: %v", err)
	}
	return validate, translator
})
