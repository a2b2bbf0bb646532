package cmd

import (
	"github.com/jessevdk/go-flags"
)

// NewParser returns the parser for the zipdump command line along with the Dump command it fills.
//
// There are no subcommands; the caller runs Dump.Execute with the remaining arguments after parsing.
func NewParser() (*flags.Parser, *Dump, error) {
	c := &Dump{}

	p := flags.NewNamedParser("zipdump", flags.Default)
	p.Usage = "[OPTIONS] file..."
	if _, err := p.AddGroup("Application Options", "", c); err != nil {
		return nil, nil, err
	}

	return p, c, nil
}
