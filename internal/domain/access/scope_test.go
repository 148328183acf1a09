package access

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestScopeResolution(t *testing.T) {
	convey.Convey("Given callers of both roles", t, func() {
		admin := Principal{ID: "a1", Admin: true}
		user := Principal{ID: "u1"}

		convey.Convey("When resolving an admin", func() {
			s := Resolve(admin)

			convey.Convey("Then the scope should be unrestricted", func() {
				convey.So(s.Unrestricted(), convey.ShouldBeTrue)

				_, bound := s.OwnerID()
				convey.So(bound, convey.ShouldBeFalse)

				convey.So(s.Allows("u1"), convey.ShouldBeTrue)
				convey.So(s.Allows("u2"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When resolving a regular user", func() {
			s := Resolve(user)

			convey.Convey("Then the scope should be bound to that user", func() {
				convey.So(s.Unrestricted(), convey.ShouldBeFalse)

				owner, bound := s.OwnerID()
				convey.So(bound, convey.ShouldBeTrue)
				convey.So(owner, convey.ShouldEqual, "u1")

				convey.So(s.Allows("u1"), convey.ShouldBeTrue)
				convey.So(s.Allows("u2"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When using the zero scope", func() {
			var s Scope

			convey.Convey("Then nothing should be visible", func() {
				convey.So(s.Unrestricted(), convey.ShouldBeFalse)
				convey.So(s.Allows("u1"), convey.ShouldBeFalse)
				convey.So(s.Allows(""), convey.ShouldBeFalse)
			})
		})
	})
}
