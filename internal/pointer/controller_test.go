package pointer_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tablesim/internal/palette"
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/table"
)

type recordingMenu struct {
	opened []int
	err    error
}

func (m *recordingMenu) Open(i int) error {
	m.opened = append(m.opened, i)
	return m.err
}

var _ = Describe("Controller", func() {
	var (
		reg  *table.Registry
		menu *recordingMenu
		ctrl *pointer.Controller
	)

	BeforeEach(func() {
		var err error
		reg, err = table.NewRegistry(table.DefaultBalls())
		Expect(err).NotTo(HaveOccurred())
		menu = &recordingMenu{}
		ctrl = pointer.New(reg, menu, pointer.DefaultImpulseScale)
	})

	velocity := func(i int) table.Vec2 {
		b, err := reg.At(i)
		Expect(err).NotTo(HaveOccurred())
		return b.Vel
	}

	It("starts idle with the default cursor", func() {
		Expect(ctrl.Mode()).To(Equal(pointer.Idle))
		Expect(ctrl.Cursor()).To(Equal(pointer.CursorDefault))
		_, ok := ctrl.Selected()
		Expect(ok).To(BeFalse())
	})

	Describe("hover", func() {
		It("marks the ball under the pointer", func() {
			ctrl.Move(203, 151)
			Expect(ctrl.Mode()).To(Equal(pointer.Hovering))
			idx, ok := ctrl.Hovered()
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))
			Expect(ctrl.Cursor()).To(Equal(pointer.CursorPointer))
		})

		It("returns to idle off any ball", func() {
			ctrl.Move(100, 150)
			ctrl.Move(450, 40)
			Expect(ctrl.Mode()).To(Equal(pointer.Idle))
			_, ok := ctrl.Hovered()
			Expect(ok).To(BeFalse())
		})

		It("treats the rim as outside", func() {
			ctrl.Move(110, 150)
			Expect(ctrl.Mode()).To(Equal(pointer.Idle))
		})
	})

	Describe("drag", func() {
		It("ignores a primary press on empty table", func() {
			Expect(ctrl.Press(pointer.Primary, 50, 50)).To(BeFalse())
			Expect(ctrl.Mode()).To(Equal(pointer.Idle))
		})

		It("anchors at the press position", func() {
			Expect(ctrl.Press(pointer.Primary, 102, 148)).To(BeTrue())
			Expect(ctrl.Mode()).To(Equal(pointer.Dragging))
			idx, ok := ctrl.Selected()
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(0))
			Expect(ctrl.Anchor()).To(Equal(table.Vec2{X: 102, Y: 148}))
		})

		It("converts the drag delta into velocity", func() {
			ctrl.Move(100, 150)
			ctrl.Press(pointer.Primary, 100, 150)
			ctrl.Move(120, 150)
			Expect(velocity(0).X).To(BeNumerically("~", 1.0, 1e-12))
			Expect(velocity(0).Y).To(Equal(0.0))
		})

		It("overwrites rather than accumulates", func() {
			ctrl.Press(pointer.Primary, 100, 150)
			ctrl.Move(140, 170)
			ctrl.Move(90, 130)
			v := velocity(0)
			Expect(v.X).To(BeNumerically("~", -0.5, 1e-12))
			Expect(v.Y).To(BeNumerically("~", -1.0, 1e-12))
		})

		It("keeps dragging when the pointer leaves the ball", func() {
			ctrl.Press(pointer.Primary, 200, 150)
			ctrl.Move(500, 20)
			Expect(ctrl.Mode()).To(Equal(pointer.Dragging))
			idx, _ := ctrl.Selected()
			Expect(idx).To(Equal(1))
			Expect(velocity(1).X).To(BeNumerically("~", 15, 1e-12))
			Expect(velocity(1).Y).To(BeNumerically("~", -6.5, 1e-12))
		})

		It("keeps the last velocity on release", func() {
			ctrl.Press(pointer.Primary, 300, 150)
			ctrl.Move(300, 170)
			ctrl.Release()
			Expect(velocity(2)).To(Equal(table.Vec2{X: 0, Y: 1}))
			_, ok := ctrl.Selected()
			Expect(ok).To(BeFalse())
			Expect(ctrl.Mode()).To(Equal(pointer.Idle))
		})

		It("returns to hovering when released over a ball", func() {
			ctrl.Press(pointer.Primary, 100, 150)
			ctrl.Move(103, 150)
			ctrl.Release()
			Expect(ctrl.Mode()).To(Equal(pointer.Hovering))
		})

		It("leaves other balls alone", func() {
			ctrl.Press(pointer.Primary, 100, 150)
			ctrl.Move(160, 100)
			Expect(velocity(1)).To(Equal(table.Vec2{}))
			Expect(velocity(2)).To(Equal(table.Vec2{}))
		})

		It("rejects a non-finite pointer and keeps the last velocity", func() {
			ctrl.Press(pointer.Primary, 100, 150)
			Expect(ctrl.Move(120, 150)).To(Succeed())
			Expect(ctrl.Move(math.NaN(), 150)).To(MatchError(table.ErrNonFinite))
			Expect(velocity(0).X).To(BeNumerically("~", 1.0, 1e-12))
			Expect(ctrl.Mode()).To(Equal(pointer.Dragging))
		})

		It("does nothing on move without a press", func() {
			ctrl.Move(100, 150)
			ctrl.Move(104, 150)
			Expect(velocity(0)).To(Equal(table.Vec2{}))
		})
	})

	Describe("context gesture", func() {
		It("opens the menu for the hovered ball", func() {
			Expect(ctrl.Press(pointer.Secondary, 200, 150)).To(BeTrue())
			Expect(menu.opened).To(Equal([]int{1}))
			Expect(ctrl.Mode()).To(Equal(pointer.Hovering))
		})

		It("ignores empty table", func() {
			Expect(ctrl.Press(pointer.Secondary, 20, 20)).To(BeFalse())
			Expect(menu.opened).To(BeEmpty())
		})

		It("is not consumed when the menu refuses", func() {
			menu.err = errors.New("nope")
			Expect(ctrl.Press(pointer.Secondary, 300, 150)).To(BeFalse())
		})

		It("is ignored while dragging", func() {
			ctrl.Press(pointer.Primary, 100, 150)
			Expect(ctrl.Press(pointer.Secondary, 200, 150)).To(BeFalse())
			Expect(menu.opened).To(BeEmpty())
		})

		It("is ignored without a menu", func() {
			bare := pointer.New(reg, nil, pointer.DefaultImpulseScale)
			Expect(bare.Press(pointer.Secondary, 100, 150)).To(BeFalse())
		})
	})

	It("drops everything on reset", func() {
		ctrl.Press(pointer.Primary, 100, 150)
		ctrl.Reset()
		Expect(ctrl.Mode()).To(Equal(pointer.Idle))
		_, ok := ctrl.Hovered()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("End to end", func() {
	var (
		reg     *table.Registry
		panel   *palette.Panel
		ctrl    *pointer.Controller
		stepper *physics.Stepper
	)

	BeforeEach(func() {
		var err error
		reg, err = table.NewRegistry(table.DefaultBalls())
		Expect(err).NotTo(HaveOccurred())
		panel = palette.New(reg)
		ctrl = pointer.New(reg, panel, pointer.DefaultImpulseScale)
		stepper = physics.NewStepper(table.DefaultTable())
	})

	It("launches a dragged ball", func() {
		ctrl.Move(100, 150)
		ctrl.Press(pointer.Primary, 100, 150)
		ctrl.Move(120, 150)
		ctrl.Release()

		b, _ := reg.At(0)
		Expect(b.Vel.X).To(BeNumerically("~", 1.0, 1e-12))

		stepper.Step(reg)

		b, _ = reg.At(0)
		Expect(b.Pos.X).To(BeNumerically("~", 101, 1e-12))
		Expect(b.Pos.Y).To(Equal(150.0))
		Expect(b.Vel.X).To(BeNumerically("~", 0.99, 1e-12))
		Expect(b.Vel.Y).To(Equal(0.0))
	})

	It("recolors through the context menu", func() {
		Expect(ctrl.Press(pointer.Secondary, 200, 150)).To(BeTrue())
		Expect(panel.IsOpen()).To(BeTrue())
		Expect(panel.Value().String()).To(Equal("#0000FF"))

		Expect(panel.SetHex("#FFFF00")).To(Succeed())
		b, _ := reg.At(1)
		Expect(b.Color.String()).To(Equal("#FFFF00"))

		panel.Blur()
		Expect(panel.IsOpen()).To(BeFalse())
	})
})
