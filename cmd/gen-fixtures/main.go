// Command gen-fixtures emits a synthetic Canvas gradebook and survey
// workbook for exercising the merge pipeline end to end.
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

const teamSize = 4

var (
	studentCount int
	outDir       string
	seed         int64
)

var ratingLabels = []string{"Unsatisfactory", "Poor", "Fair", "Good", "Excellent"}

// question mirrors one ResponseMap row.
type question struct {
	role     string
	category string
	label    string
	text     string
}

func questions() []question {
	qs := []question{
		{"general", "", "Timestamp", "Timestamp"},
		{"general", "", "Submission ID", "Submission ID"},
		{"self", "name", "Name", "Your name (First Last)"},
		{"self", "email", "Email", "Your university email address"},
		{"self", "section", "Section", "Your section"},
		{"self", "team", "Team", "Your team"},
		{"self", "rating", "Quality of work", "Rate the quality of your own work"},
		{"self", "rating", "Team participation", "Rate your own participation"},
		{"self", "comments", "Self comments", "Comments on your own contribution"},
	}
	for p := 1; p < teamSize; p++ {
		slot := fmt.Sprintf("peer%d", p)
		qs = append(qs,
			question{slot, "name", "Name", fmt.Sprintf("Teammate %d: name (First Last)", p)},
			question{slot, "rating", "Quality of work", fmt.Sprintf("Teammate %d: quality of work", p)},
			question{slot, "rating", "Team participation", fmt.Sprintf("Teammate %d: participation", p)},
			question{slot, "comments", "Peer comments", fmt.Sprintf("Teammate %d: comments", p)},
		)
	}
	return qs
}

var firstNames = []string{"Ada", "Ben", "Cleo", "Dev", "Elif", "Finn", "Gus", "Hana", "Ivo", "June", "Kit", "Lena", "Mo", "Nia", "Omar", "Pia"}
var lastNames = []string{"Archer", "Bloom", "Castillo", "Dunn", "Eriksen", "Farrow", "Gale", "Hoang", "Iqbal", "Joyce", "Keats", "Lund", "Meyer", "Nakano", "Okafor", "Pratt"}

type student struct {
	first, last, login, section, team string
}

func makeStudents(n int) []student {
	students := make([]student, n)
	for i := range students {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i+i/len(lastNames))%len(lastNames)]
		login := strings.ToLower(first[:1] + last)
		if i >= len(firstNames) {
			login = fmt.Sprintf("%s%d", login, i)
		}
		students[i] = student{
			first:   first,
			last:    last,
			login:   login,
			section: fmt.Sprintf("GEO-110-%d", 1+i%2),
			team:    fmt.Sprintf("Team %d", 1+i/teamSize),
		}
	}
	return students
}

func writeRoster(path string, students []student) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"Student", "ID", "SIS User ID", "SIS Login ID", "Root Account", "Section"},
		{"Points Possible", "", "", "", "", ""},
	}
	for i, s := range students {
		rows = append(rows, []string{
			s.last + ", " + s.first,
			fmt.Sprintf("%d", 10000+i),
			fmt.Sprintf("W%08d", 2000000+i),
			s.login,
			"school.instructure.com",
			s.section,
		})
	}
	rows = append(rows, []string{"Student, Test", "99999", "", "teststudent", "school.instructure.com", students[0].section})
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeSurvey(path string, rng *rand.Rand, students []student) error {
	qs := questions()
	f := excelize.NewFile()
	defer f.Close()

	set := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	// Form Responses 1: one submission per student, teammates = the rest of
	// the team. A few cells stay blank or "NA" so the NA handling gets data.
	respSheet := "Form Responses 1"
	f.SetSheetName("Sheet1", respSheet)
	for c, q := range qs {
		if err := set(respSheet, c, 0, q.text); err != nil {
			return err
		}
	}
	for r, s := range students {
		teammates := sameTeam(students, s)
		row := []any{
			fmt.Sprintf("2026/01/%02d 10:%02d:00", 1+r%28, r%60),
			uuid.NewString(),
			s.first + " " + s.last,
			s.login + "@school.edu",
			s.section,
			s.team,
			ratingLabels[1+rng.Intn(4)],
			ratingLabels[1+rng.Intn(4)],
			"Did my part on the project.",
		}
		for p := 0; p < teamSize-1; p++ {
			if p < len(teammates) {
				comment := "Solid teammate."
				if rng.Intn(4) == 0 {
					comment = "NA"
				}
				row = append(row,
					teammates[p].first+" "+teammates[p].last,
					ratingLabels[1+rng.Intn(4)],
					ratingLabels[1+rng.Intn(4)],
					comment,
				)
			} else {
				row = append(row, "NA", "", "", "")
			}
		}
		for c, v := range row {
			if err := set(respSheet, c, r+1, v); err != nil {
				return err
			}
		}
	}

	// ResponseMap: three title rows, header on row 4, then one row per
	// response column in order.
	mapSheet := "ResponseMap"
	if _, err := f.NewSheet(mapSheet); err != nil {
		return err
	}
	if err := set(mapSheet, 0, 0, "Map of survey questions to roles and categories"); err != nil {
		return err
	}
	for c, h := range []string{"question", "student", "category", "newhead"} {
		if err := set(mapSheet, c, 3, h); err != nil {
			return err
		}
	}
	for r, q := range qs {
		vals := []any{q.text, q.role, q.category, q.label}
		for c, v := range vals {
			if err := set(mapSheet, c, r+4, v); err != nil {
				return err
			}
		}
	}

	// PointMap: same title/header shape.
	pointSheet := "PointMap"
	if _, err := f.NewSheet(pointSheet); err != nil {
		return err
	}
	if err := set(pointSheet, 0, 0, "Point values for each rating label"); err != nil {
		return err
	}
	for c, h := range []string{"Rating", "Points"} {
		if err := set(pointSheet, c, 3, h); err != nil {
			return err
		}
	}
	for r, label := range ratingLabels {
		if err := set(pointSheet, 0, r+4, label); err != nil {
			return err
		}
		if err := set(pointSheet, 1, r+4, r+1); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func sameTeam(students []student, s student) []student {
	var out []student
	for _, other := range students {
		if other.team == s.team && other.login != s.login {
			out = append(out, other)
		}
	}
	return out
}

var rootCmd = &cobra.Command{
	Use:   "gen-fixtures",
	Short: "generate a synthetic gradebook and survey workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if studentCount < teamSize {
			return fmt.Errorf("need at least %d students", teamSize)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		rng := rand.New(rand.NewSource(seed))
		students := makeStudents(studentCount)

		rosterPath := filepath.Join(outDir, "gradebook.csv")
		if err := writeRoster(rosterPath, students); err != nil {
			return err
		}
		surveyPath := filepath.Join(outDir, "survey.xlsx")
		if err := writeSurvey(surveyPath, rng, students); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s (%d students)\n", rosterPath, surveyPath, studentCount)
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVar(&studentCount, "students", 12, "number of students")
	rootCmd.Flags().StringVar(&outDir, "dir", "fixtures", "output directory")
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
