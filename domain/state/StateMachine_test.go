package state_test

import (
	"spkwork/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
	)

	BeforeEach(func() {
		//         draft        active        done
		// draft     -            V (begin)   V (close)
		// active    V (cancel)   -           V (finish)
		// done      X            X           -
		stateMachine = state.NewStateMachine(
			[]state.State{"draft", "active", "done"},
			[]state.Transition{
				{Name: "begin", From: "draft", To: "active"},
				{Name: "close", From: "draft", To: "done"},
				{Name: "cancel", From: "active", To: "draft"},
				{Name: "finish", From: "active", To: "done"},
			})
	})

	Describe("NewStateMachine", func() {
		It("should create new State Machine successfully", func() {
			Expect(stateMachine).NotTo(BeZero())
			Expect(stateMachine.States).Should(Equal([]state.State{"draft", "active", "done"}))
			Expect(stateMachine.Transitions).Should(Equal(
				[]state.Transition{
					{Name: "begin", From: "draft", To: "active"},
					{Name: "close", From: "draft", To: "done"},
					{Name: "cancel", From: "active", To: "draft"},
					{Name: "finish", From: "active", To: "done"},
				},
			))
		})
	})

	Describe("AvailableTransitions", func() {
		It("should return availableTransitions as expected", func() {
			Ω(stateMachine.AvailableTransitions("draft")).Should(Equal([]state.Transition{
				{Name: "begin", From: "draft", To: "active"},
				{Name: "close", From: "draft", To: "done"},
			}))

			Ω(stateMachine.AvailableTransitions("active")).Should(Equal([]state.Transition{
				{Name: "cancel", From: "active", To: "draft"},
				{Name: "finish", From: "active", To: "done"},
			}))

			Ω(len(stateMachine.AvailableTransitions("done"))).Should(Equal(0))
			Ω(len(stateMachine.AvailableTransitions("unknown"))).Should(Equal(0))
		})
	})

	Describe("Accepts", func() {
		It("should accept only edges in the transition table", func() {
			Ω(stateMachine.Accepts("draft", "active")).Should(BeTrue())
			Ω(stateMachine.Accepts("draft", "done")).Should(BeTrue())
			Ω(stateMachine.Accepts("active", "draft")).Should(BeTrue())
			Ω(stateMachine.Accepts("active", "done")).Should(BeTrue())

			Ω(stateMachine.Accepts("done", "draft")).Should(BeFalse())
			Ω(stateMachine.Accepts("done", "active")).Should(BeFalse())
			Ω(stateMachine.Accepts("draft", "draft")).Should(BeFalse())
			Ω(stateMachine.Accepts("unknown", "active")).Should(BeFalse())
		})
	})
})
