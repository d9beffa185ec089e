package main

import (
	"context"
	"fmt"

	"github.com/a-h/pdfrag"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(pdfrag.Version)
	return nil
}
