// Command analyzer profiles tabular data and trains supervised models on it.
//
//	analyzer sample employees.csv --rows 1000
//	analyzer analyze employees.csv --plots out/
//	analyzer train employees.csv --target income --features age,education_years --family random_forest
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
