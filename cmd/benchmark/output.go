package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func resultsSheet(results []ExperimentResult) sheet {
	rows := make([][]any, 0)
	for _, result := range results {
		experiment := result.Experiment
		for generation, average := range result.AverageBestFitness {
			rows = append(rows, []any{
				experiment.Id.String(),
				string(experiment.Selection),
				string(experiment.Crossover),
				string(experiment.Mutation),
				experiment.Elitism,
				experiment.Sharing,
				result.Trials,
				result.BestFitness,
				generation + 1,
				average,
			})
		}
	}

	return sheet{
		name:   "Results",
		header: []string{"Experiment", "Selection", "Crossover", "Mutation", "Elitism", "Sharing", "Trials", "Best Fitness", "Generation", "Average Best Fitness"},
		rows:   rows,
	}
}

func optimaSheet(results []ExperimentResult) sheet {
	optima := lo.FlatMap(results, func(result ExperimentResult, _ int) []GlobalOptimum { return result.Optima })

	return sheet{
		name:   "Optima",
		header: []string{"Experiment", "Selection", "Crossover", "Mutation", "Elitism", "Sharing", "Trial", "Individual"},
		rows: lo.Map(optima, func(optimum GlobalOptimum, _ int) []any {
			experiment := optimum.Experiment
			return []any{
				experiment.Id.String(),
				string(experiment.Selection),
				string(experiment.Crossover),
				string(experiment.Mutation),
				experiment.Elitism,
				experiment.Sharing,
				optimum.Trial,
				formatIndividual(optimum.Individual),
			}
		}),
	}
}

func overallSheet(results []ExperimentResult) sheet {
	overall := sheet{
		name:   "Overall",
		header: []string{"Experiment", "Selection", "Crossover", "Mutation", "Elitism", "Sharing", "Best Fitness", "Individual"},
		rows:   [][]any{},
	}

	if best, ok := overallBest(results); ok {
		experiment := best.Experiment
		overall.rows = append(overall.rows, []any{
			experiment.Id.String(),
			string(experiment.Selection),
			string(experiment.Crossover),
			string(experiment.Mutation),
			experiment.Elitism,
			experiment.Sharing,
			best.BestFitness,
			formatIndividual(best.Best),
		})
	}
	return overall
}

// Turns separated by "|", days by ";" and blocks by ","
func formatIndividual(individual model.Individual) string {
	return strings.Join(lo.Map(individual, func(schedule model.TurnSchedule, _ int) string {
		return strings.Join(lo.Map(schedule, func(day model.Day, _ int) string {
			return strings.Join(lo.Map(day, func(block model.Block, _ int) string { return block.String() }), ",")
		}), ";")
	}), "|")
}

func toCsv(results []ExperimentResult, out string) {
	for _, table := range []sheet{resultsSheet(results), optimaSheet(results), overallSheet(results)} {
		writeCsv(table, fmt.Sprintf("%v_%v.csv", out, strings.ToLower(table.name)))
	}
}

func writeCsv(table sheet, path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, row := range table.rows {
		record := lo.Map(row, func(value any, _ int) string { return fmt.Sprint(value) })
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func toXlsx(results []ExperimentResult, out string) {
	file := excelize.NewFile()
	defer file.Close()

	for i, table := range []sheet{resultsSheet(results), optimaSheet(results), overallSheet(results)} {
		if i == 0 {
			// NewFile always starts with a default sheet
			if err := file.SetSheetName("Sheet1", table.name); err != nil {
				log.Panicf("cannot rename default sheet: %v", err)
			}
		} else if _, err := file.NewSheet(table.name); err != nil {
			log.Panicf("cannot create sheet \"%v\": %v", table.name, err)
		}

		for column, name := range table.header {
			cell, _ := excelize.CoordinatesToCellName(column+1, 1)
			file.SetCellValue(table.name, cell, name)
		}

		for r, row := range table.rows {
			rowNum := r + 2 // Skip header
			for column, value := range row {
				cell, _ := excelize.CoordinatesToCellName(column+1, rowNum)
				file.SetCellValue(table.name, cell, value)
			}
		}
	}

	if err := file.SaveAs(out + ".xlsx"); err != nil {
		log.Panicf("cannot write XLSX file: %v", err)
	}
}
