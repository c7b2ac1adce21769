// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt asks for a category and paper count on a line-oriented
// terminal. It is used only when the CLI is run without a category.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrQuit is returned when the user enters "q" at the category prompt.
var ErrQuit = errors.New("quit")

// Category describes a commonly harvested arXiv category.
type Category struct {
	Tag  string
	Name string
}

// Popular lists categories shown in prompts and by the categories command.
var Popular = []Category{
	{"cs.CL", "Computation and Language"},
	{"cs.AI", "Artificial Intelligence"},
	{"cs.CV", "Computer Vision"},
	{"cs.LG", "Machine Learning"},
	{"math.PR", "Probability"},
	{"physics", "All physics"},
}

// WriteCategories lists Popular to w, one per line.
func WriteCategories(w io.Writer) {
	for _, c := range Popular {
		fmt.Fprintf(w, "  - %s (%s)\n", c.Tag, c.Name)
	}
}

// Ask reads a category and a count from in, re-prompting on invalid input.
// An empty count means defaultCount. Input ending before both values are
// read returns io.ErrUnexpectedEOF.
func Ask(in io.Reader, out io.Writer, defaultCount int) (category string, count int, err error) {
	sc := bufio.NewScanner(in)

	fmt.Fprintln(out, "Popular categories:")
	WriteCategories(out)

	for {
		fmt.Fprint(out, "\nEnter arXiv category (e.g., cs.CL) or 'q' to quit: ")
		line, ok := readLine(sc)
		if !ok {
			return "", 0, io.ErrUnexpectedEOF
		}
		if strings.EqualFold(line, "q") {
			return "", 0, ErrQuit
		}
		if line != "" {
			category = line
			break
		}
		fmt.Fprintln(out, "Please enter a valid category.")
	}

	for {
		fmt.Fprintf(out, "Enter number of papers to fetch (default: %d): ", defaultCount)
		line, ok := readLine(sc)
		if !ok {
			return "", 0, io.ErrUnexpectedEOF
		}
		if line == "" {
			return category, defaultCount, nil
		}
		n, convErr := strconv.Atoi(line)
		switch {
		case convErr != nil:
			fmt.Fprintln(out, "Please enter a valid number.")
		case n < 1:
			fmt.Fprintln(out, "Please enter a number greater than 0.")
		default:
			return category, n, nil
		}
	}
}

func readLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
