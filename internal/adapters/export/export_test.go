package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tmarren/peerweave/internal/adapters/export"
	"github.com/tmarren/peerweave/internal/domain/roster"

	. "github.com/smartystreets/goconvey/convey"
)

func gradedRoster() *roster.Roster {
	ros := roster.New()
	jane := &roster.Record{
		LoginID: "jdoe",
		Name:    "Jane Doe",
		Section: "A",
		Extra:   map[string]string{"Student": "Doe, Jane", "ID": "1001"},
	}
	bob := &roster.Record{
		LoginID: "bsmith",
		Name:    "Bob Smith",
		Section: "B",
		Extra:   map[string]string{"Student": "Smith, Bob", "ID": "1002"},
	}
	So(ros.Add(jane), ShouldBeNil)
	So(ros.Add(bob), ShouldBeNil)

	ros.AddResultColumns([]string{"SE: Quality", "Quality (avg)", "Peer comments"})
	jane.SetResult("SE: Quality", roster.Number(5))
	jane.SetResult("Quality (avg)", roster.Number(4.5))
	jane.SetResult("Peer comments", roster.Text("ok | strong"))
	bob.SetResult("Quality (avg)", roster.Number(4))
	return ros
}

func TestWriteCSV(t *testing.T) {
	Convey("Given an enriched roster", t, func() {
		ros := gradedRoster()
		path := filepath.Join(t.TempDir(), "out.csv")

		Convey("When written as CSV", func() {
			So(export.WriteCSV(path, ros), ShouldBeNil)

			f, err := os.Open(path)
			So(err, ShouldBeNil)
			defer f.Close()
			records, err := csv.NewReader(f).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then identity columns lead and result columns trail", func() {
				So(records[0], ShouldResemble, []string{
					"SIS Login ID", "Student", "Name", "Section", "ID",
					"SE: Quality", "Quality (avg)", "Peer comments",
				})
			})

			Convey("And rows keep roster order with blanks for missing results", func() {
				So(records, ShouldHaveLength, 3)
				So(records[1], ShouldResemble, []string{
					"jdoe", "Doe, Jane", "Jane Doe", "A", "1001", "5", "4.5", "ok | strong",
				})
				So(records[2], ShouldResemble, []string{
					"bsmith", "Smith, Bob", "Bob Smith", "B", "1002", "", "4", "",
				})
			})
		})
	})
}

func TestWriteXLSX(t *testing.T) {
	Convey("Given an enriched roster", t, func() {
		ros := gradedRoster()
		path := filepath.Join(t.TempDir(), "out.xlsx")

		Convey("When written as a workbook", func() {
			So(export.WriteXLSX(path, ros), ShouldBeNil)

			f, err := excelize.OpenFile(path)
			So(err, ShouldBeNil)
			defer f.Close()
			rows, err := f.GetRows("Sheet1")
			So(err, ShouldBeNil)

			Convey("Then the sheet mirrors the CSV layout", func() {
				So(rows, ShouldHaveLength, 3)
				So(rows[0], ShouldResemble, []string{
					"SIS Login ID", "Student", "Name", "Section", "ID",
					"SE: Quality", "Quality (avg)", "Peer comments",
				})
				So(rows[1][0], ShouldEqual, "jdoe")
				So(rows[1][6], ShouldEqual, "4.5")
			})

			Convey("And missing results leave their cells blank", func() {
				v, err := f.GetCellValue("Sheet1", "F3")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "")
			})
		})
	})
}
