package validation

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/huwdunnit/snookerup/internal/domain/model"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCheckScore(t *testing.T) {
	convey.Convey("Given a routine with allow-lists", t, func() {
		routine := model.Routine{
			ID:            "r1",
			Title:         "The T Line Up",
			CushionLimits: []int{0, 3, 5, 7},
			Colours:       []string{"all", "black"},
			Balls:         &model.Balls{Options: []int{3, 5, 10}, Unit: "reds"},
			CanLoop:       true,
		}

		convey.Convey("When the score carries no optional fields", func() {
			err := CheckScore(model.Score{Value: 40}, routine)

			convey.Convey("Then it should pass", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the cushion limit is on the allow-list", func() {
			err := CheckScore(model.Score{CushionLimit: intPtr(3)}, routine)

			convey.Convey("Then it should pass", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the cushion limit is off the allow-list", func() {
			err := CheckScore(model.Score{CushionLimit: intPtr(4)}, routine)

			convey.Convey("Then it should fail naming cushionLimit", func() {
				var fieldErr *FieldError
				convey.So(errors.As(err, &fieldErr), convey.ShouldBeTrue)
				convey.So(fieldErr.Field, convey.ShouldEqual, "cushionLimit")
			})
		})

		convey.Convey("When the colours value is not permitted", func() {
			err := CheckScore(model.Score{Colours: strPtr("pink")}, routine)

			convey.Convey("Then it should fail naming colours", func() {
				var fieldErr *FieldError
				convey.So(errors.As(err, &fieldErr), convey.ShouldBeTrue)
				convey.So(fieldErr.Field, convey.ShouldEqual, "colours")
			})
		})

		convey.Convey("When the ball count is not an option", func() {
			err := CheckScore(model.Score{NumBalls: intPtr(4)}, routine)

			convey.Convey("Then it should fail naming numBalls", func() {
				var fieldErr *FieldError
				convey.So(errors.As(err, &fieldErr), convey.ShouldBeTrue)
				convey.So(fieldErr.Field, convey.ShouldEqual, "numBalls")
			})
		})

		convey.Convey("When several fields are invalid", func() {
			err := CheckScore(model.Score{CushionLimit: intPtr(4), Colours: strPtr("pink")}, routine)

			convey.Convey("Then the first stage should win", func() {
				var fieldErr *FieldError
				convey.So(errors.As(err, &fieldErr), convey.ShouldBeTrue)
				convey.So(fieldErr.Field, convey.ShouldEqual, "cushionLimit")
			})
		})
	})

	convey.Convey("Given a routine with no allow-lists", t, func() {
		bare := model.Routine{ID: "r2", Title: "Clearing the Colours"}

		convey.Convey("When the score sets any optional field", func() {
			convey.Convey("Then each should be rejected", func() {
				for field, sc := range map[string]model.Score{
					"cushionLimit": {CushionLimit: intPtr(0)},
					"colours":      {Colours: strPtr("all")},
					"numBalls":     {NumBalls: intPtr(5)},
					"loop":         {Loop: true},
				} {
					var fieldErr *FieldError
					err := CheckScore(sc, bare)
					convey.So(errors.As(err, &fieldErr), convey.ShouldBeTrue)
					convey.So(fieldErr.Field, convey.ShouldEqual, field)
				}
			})
		})

		convey.Convey("When the score is plain", func() {
			convey.Convey("Then it should pass", func() {
				convey.So(CheckScore(model.Score{Value: 12}, bare), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a routine that cannot loop", t, func() {
		routine := model.Routine{ID: "r3", Title: "Long Potting", CanLoop: false}

		convey.Convey("When a looped score is submitted", func() {
			err := CheckScore(model.Score{Loop: true}, routine)

			convey.Convey("Then it should fail naming loop", func() {
				var fieldErr *FieldError
				convey.So(errors.As(err, &fieldErr), convey.ShouldBeTrue)
				convey.So(fieldErr.Field, convey.ShouldEqual, "loop")
			})
		})

		convey.Convey("When loop is false", func() {
			convey.Convey("Then it should pass", func() {
				convey.So(CheckScore(model.Score{}, routine), convey.ShouldBeNil)
			})
		})
	})
}
