package api

import (
	"github.com/connectdotz/metro/internal/dep_collector"
	"github.com/connectdotz/metro/internal/js_parser"
	"github.com/connectdotz/metro/internal/js_printer"
	"github.com/connectdotz/metro/internal/logger"
)

func collectImpl(options CollectOptions) CollectResult {
	prettyPath := options.File
	if prettyPath == "" {
		prettyPath = "<stdin>"
	}

	source := logger.Source{
		PrettyPath: prettyPath,
		Contents:   options.Contents,
	}

	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, source)
	if !ok {
		return CollectResult{Errors: messagesFromLog(log.Done())}
	}

	mode := dep_collector.DynamicRequiresReject
	if options.DynamicRequires == DynamicRequiresThrowAtRuntime {
		mode = dep_collector.DynamicRequiresThrowAtRuntime
	}

	result, err := dep_collector.Collect(source, &tree, dep_collector.Options{
		AsyncRequireModulePath: options.AsyncRequireModulePath,
		DynamicRequires:        mode,
		InlineableCalls:        options.InlineableCalls,
		KeepRequireNames:       options.KeepRequireNames,
		DependencyMapName:      options.DependencyMapName,
		Logger:                 options.Logger,
	})
	if err != nil {
		msg := Message{Text: err.Error()}
		if invalid, isInvalid := err.(*dep_collector.InvalidRequireCallError); isInvalid {
			msg.Text = invalid.Text
			if invalid.Location != nil {
				msg.File = invalid.Location.File
				msg.Line = invalid.Location.Line
				msg.Column = invalid.Location.Column
				msg.LineText = invalid.Location.LineText
			}
		}
		return CollectResult{Errors: []Message{msg}}
	}

	deps := make([]Dependency, len(result.Dependencies))
	for i, dep := range result.Dependencies {
		locs := make([]DependencyLocation, len(dep.Data.Locs))
		for j, span := range dep.Data.Locs {
			locs[j] = DependencyLocation{
				Start: Position{Line: span.Start.Line, Column: span.Start.Column},
				End:   Position{Line: span.End.Line, Column: span.End.Column},
			}
		}
		deps[i] = Dependency{
			Name: dep.Name,
			Data: DependencyData{
				IsAsync:        dep.Data.IsAsync,
				IsPrefetchOnly: dep.Data.IsPrefetchOnly,
				Locs:           locs,
			},
		}
	}

	code := js_printer.Print(tree, js_printer.Options{}).JS

	return CollectResult{
		Code:              string(code),
		Dependencies:      deps,
		DependencyMapName: result.DependencyMapName,
	}
}

func messagesFromLog(msgs []logger.Msg) []Message {
	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Kind != logger.Error {
			continue
		}
		m := Message{Text: msg.Data.Text}
		if msg.Data.Location != nil {
			m.File = msg.Data.Location.File
			m.Line = msg.Data.Location.Line
			m.Column = msg.Data.Location.Column
			m.LineText = msg.Data.Location.LineText
		}
		out = append(out, m)
	}
	return out
}
