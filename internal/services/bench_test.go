package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobgraph/internal/models"
	"github.com/kubev2v/jobgraph/internal/services"
)

var _ = Describe("Bench", func() {
	It("should run the whole graph and report it", func() {
		wp, inline := newPool(4)
		defer func() { _ = wp.Close() }()

		bench := services.NewBench(wp, services.BenchOptions{
			Independent: 500,
			ChainLength: 100,
			Diamonds:    50,
			Spin:        100,
		})
		Expect(bench.Start()).To(Succeed())
		wp.StartWorkers()

		Expect(runInline(inline)).To(Succeed())
		Expect(bench.Status().State).To(Equal(models.RunStateCompleted))

		report := bench.Report()
		Expect(report.Executed).To(BeEquivalentTo(500 + 100 + 4*50))
		Expect(report.Elapsed).To(BeNumerically(">", 0))
		Expect(report.JobsPerSecond()).To(BeNumerically(">", 0))
		Expect(wp.Stats().Executed).To(BeEquivalentTo(500 + 100 + 4*50 + 1))
	})
})
