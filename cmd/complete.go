package cmd

import (
	"github.com/etnz/payments/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the txp command line for shell completion.
func Completion() *complete.Command {
	files := predict.Or(predict.Files("*.csv"), predict.Files("*.jsonl"))
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"log-json": predict.Nothing,
			"v":        predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"process": {
				Flags: map[string]complete.Predictor{
					"format":      predict.Set{formatCSV, formatJSON, formatMarkdown},
					"q":           predict.Something,
					"kafka":       predict.Something,
					"kafka-topic": predict.Something,
					"postgres":    predict.Something,
				},
				Args: files,
			},
			"audit": {Args: files},
			"convert": {
				Flags: map[string]complete.Predictor{
					"to": predict.Set{formatCSV, formatJSONL},
				},
				Args: files,
			},
			"topic": {Args: predict.Set(append(topics, docs.All))},
		},
	}
}
