package model

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeUsername(t *testing.T) {
	Convey("Given raw handles", t, func() {
		So(NormalizeUsername("  Alice "), ShouldEqual, "alice")
		So(NormalizeUsername("BOB_1"), ShouldEqual, "bob_1")
		So(NormalizeUsername("   "), ShouldEqual, "")
	})
}

func TestValidateUsername(t *testing.T) {
	Convey("Given username validation", t, func() {
		Convey("When the handle is well formed", func() {
			So(ValidateUsername("Alice.dev-01_x"), ShouldBeNil)
		})

		Convey("When the handle is blank", func() {
			err := ValidateUsername("   ")

			Convey("Then a ValidationError names the field", func() {
				var ve *ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Field, ShouldEqual, "username")
				So(err.Error(), ShouldEqual, "invalid username: username required")
			})
		})

		Convey("When the handle contains a path separator", func() {
			So(ValidateUsername("a/b"), ShouldNotBeNil)
		})

		Convey("When the handle is too long", func() {
			So(ValidateUsername(strings.Repeat("a", 65)), ShouldNotBeNil)
			So(ValidateUsername(strings.Repeat("a", 64)), ShouldBeNil)
		})
	})
}

func TestProblemCountsValidate(t *testing.T) {
	Convey("Given problem counts", t, func() {
		So(ProblemCounts{All: 50, Easy: 20, Medium: 25, Hard: 5}.Validate(), ShouldBeNil)
		So(ProblemCounts{}.Validate(), ShouldBeNil)

		err := ProblemCounts{All: 1, Hard: -1}.Validate()
		var ve *ValidationError
		So(errors.As(err, &ve), ShouldBeTrue)
		So(ve.Field, ShouldEqual, "solved.hard")
	})
}

func TestValidateTags(t *testing.T) {
	Convey("Given tag stats", t, func() {
		Convey("When all tags are valid", func() {
			tags := []TagStat{{TagSlug: "arrays", Solved: 3}, {TagSlug: "graph", Solved: 0}}
			So(ValidateTags(tags), ShouldBeNil)
			So(ValidateTags(nil), ShouldBeNil)
		})

		Convey("When a slug is missing", func() {
			So(ValidateTags([]TagStat{{TagName: "Arrays", Solved: 1}}), ShouldNotBeNil)
		})

		Convey("When a count is negative", func() {
			err := ValidateTags([]TagStat{{TagSlug: "arrays", Solved: -2}})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "tags.arrays.solved")
		})

		Convey("When a slug repeats", func() {
			err := ValidateTags([]TagStat{{TagSlug: "arrays"}, {TagSlug: "arrays"}})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "duplicate arrays")
		})
	})
}

func TestCleanTags(t *testing.T) {
	Convey("Given upstream tags with bad rows", t, func() {
		tags := []TagStat{
			{TagSlug: "arrays", Solved: 3},
			{TagSlug: "", TagName: "Nameless", Solved: 1},
			{TagSlug: "graph", Solved: -1},
			{TagSlug: "arrays", Solved: 9},
			{TagSlug: "tree", Solved: 0},
		}

		kept, dropped := CleanTags(tags)

		So(dropped, ShouldEqual, 3)
		So(kept, ShouldResemble, []TagStat{{TagSlug: "arrays", Solved: 3}, {TagSlug: "tree", Solved: 0}})
		So(ValidateTags(kept), ShouldBeNil)
		So(len(tags), ShouldEqual, 5)
	})

	Convey("Given no tags", t, func() {
		kept, dropped := CleanTags(nil)
		So(kept, ShouldBeEmpty)
		So(dropped, ShouldEqual, 0)
	})
}
