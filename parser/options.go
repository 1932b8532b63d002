package parser

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownPlugin     = errors.New("unknown parser plugin")
	ErrInvalidSourceType = errors.New("invalid source type")
)

type SourceType string

const (
	SOURCE_UNSPECIFIED SourceType = ""
	SOURCE_SCRIPT      SourceType = "script"
	SOURCE_MODULE      SourceType = "module"
)

// Syntax extensions that are not part of the default grammar.
const (
	PLUGIN_CLASS_PROPERTIES         = "classProperties"
	PLUGIN_CLASS_PRIVATE_PROPERTIES = "classPrivateProperties"
	PLUGIN_CLASS_PRIVATE_METHODS    = "classPrivateMethods"
	PLUGIN_CLASS_STATIC_BLOCK       = "classStaticBlock"
)

var knownPlugins = []string{
	PLUGIN_CLASS_PROPERTIES,
	PLUGIN_CLASS_PRIVATE_PROPERTIES,
	PLUGIN_CLASS_PRIVATE_METHODS,
	PLUGIN_CLASS_STATIC_BLOCK,
}

type Options struct {
	SourceType                  SourceType
	Plugins                     []string
	SourceFilename              string
	AllowReturnOutsideFunction  bool
	AllowImportExportEverywhere bool
	// StrictMode forces strict mode on or off. When nil, modules are strict
	// and scripts are not.
	StrictMode *bool
}

var DefaultOptions = Options{
	SourceType:                  SOURCE_SCRIPT,
	Plugins:                     nil,
	SourceFilename:              "",
	AllowReturnOutsideFunction:  false,
	AllowImportExportEverywhere: false,
	StrictMode:                  nil,
}

// GetOptions merges opts over DefaultOptions and validates the result.
func GetOptions(opts *Options) (*Options, error) {
	options := DefaultOptions
	options.Plugins = nil

	if opts != nil {
		if opts.SourceType != SOURCE_UNSPECIFIED {
			options.SourceType = opts.SourceType
		}
		options.Plugins = slices.Clone(opts.Plugins)
		options.SourceFilename = opts.SourceFilename
		options.AllowReturnOutsideFunction = opts.AllowReturnOutsideFunction
		options.AllowImportExportEverywhere = opts.AllowImportExportEverywhere
		options.StrictMode = opts.StrictMode
	}

	switch options.SourceType {
	case SOURCE_SCRIPT, SOURCE_MODULE:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSourceType, options.SourceType)
	}

	for _, name := range options.Plugins {
		if !slices.Contains(knownPlugins, name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
		}
	}
	return &options, nil
}

func (o *Options) hasPlugin(name string) bool {
	return slices.Contains(o.Plugins, name)
}

func (o *Options) strict() bool {
	if o.StrictMode != nil {
		return *o.StrictMode
	}
	return o.SourceType == SOURCE_MODULE
}
