package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/rezkam/focusboard/tools/linters/clockonly"
)

func main() {
	singlechecker.Main(clockonly.Analyzer)
}
