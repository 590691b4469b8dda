package cluster_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aretw0/stratum/pkg/adapters/memory"
	"github.com/aretw0/stratum/pkg/cluster"
	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/schema"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("Cluster editor", func() {
	var (
		ctx   context.Context
		store *memory.Store
		svc   *cluster.Service
		now   time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		now = time.Date(2025, 1, 15, 14, 30, 45, 0, time.UTC)
		svc = cluster.NewService(store, cluster.WithClock(func() time.Time { return now }))
	})

	Describe("Create", func() {
		It("stores an empty cluster", func() {
			c, err := svc.Create(ctx, ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Records).To(BeEmpty())
			Expect(c.CreatedAt).To(Equal(now))

			_, err = svc.Create(ctx, ref)
			Expect(err).To(MatchError(domain.ErrClusterExists))
		})

		It("validates every level of the reference", func() {
			_, err := svc.Create(ctx, domain.ClusterRef{Project: "acme", Collection: "bad name", Cluster: "x"})
			var ve *schema.ValidationError
			Expect(err).To(BeAssignableToTypeOf(ve))
			Expect(err.(*schema.ValidationError).Key).To(Equal("collection"))
			Expect(err.(*schema.ValidationError).Reason).To(Equal("Collection name can only contain letters, numbers, underscores (_), and hyphens (-)"))

			_, err = svc.Create(ctx, domain.ClusterRef{Project: "a_project_name_that_is_far_too_long", Collection: "c", Cluster: "x"})
			Expect(err).To(MatchError(ContainSubstring("Project name must be 32 characters or less")))
		})

		It("honors configured ceilings", func() {
			svc = cluster.NewService(store, cluster.WithPolicies(naming.DefaultPolicies().WithMaxLength(naming.KindCluster, 3)))
			_, err := svc.Create(ctx, domain.ClusterRef{Project: "p", Collection: "c", Cluster: "four"})
			Expect(err).To(MatchError(ContainSubstring("Cluster name must be 3 characters or less")))
		})
	})

	Context("with an existing cluster", func() {
		BeforeEach(func() {
			_, err := svc.Create(ctx, ref)
			Expect(err).NotTo(HaveOccurred())
		})

		Describe("AddRecord", func() {
			It("starts from the type example when no value is given", func() {
				rec, err := svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "created_on", Type: schema.Date})
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.ID).NotTo(BeEmpty())
				Expect(rec.Value).To(Equal(schema.Example(schema.Date)))
				Expect(rec.UpdatedAt).To(Equal(now))
			})

			It("rejects invalid names with the record message", func() {
				_, err := svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "user id", Type: schema.String})
				Expect(err).To(MatchError(ContainSubstring("Record name cannot contain spaces")))

				_, err = svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "NULL", Type: schema.String})
				Expect(err).To(MatchError(ContainSubstring("Record name cannot be a reserved keyword")))
			})

			It("rejects duplicate names ignoring case", func() {
				_, err := svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "Retries", Type: schema.Integer})
				Expect(err).NotTo(HaveOccurred())

				_, err = svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "retries", Type: schema.Integer})
				Expect(err).To(MatchError(domain.ErrDuplicateName))
			})

			It("rejects values that do not match the type", func() {
				_, err := svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "when", Type: schema.Date, Value: ptr("2025-02-30")})
				Expect(err).To(MatchError(ContainSubstring("Invalid date")))
			})

			It("rejects unknown types", func() {
				_, err := svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "blob", Type: "BLOB"})
				Expect(err).To(MatchError(ContainSubstring("Unknown data type: BLOB")))
			})

			It("fails on a missing cluster", func() {
				missing := domain.ClusterRef{Project: "acme", Collection: "billing", Cluster: "nope"}
				_, err := svc.AddRecord(ctx, missing, cluster.RecordInput{Name: "x", Type: schema.String})
				Expect(err).To(MatchError(domain.ErrClusterNotFound))
			})
		})

		Describe("UpdateRecord", func() {
			var rec domain.Record

			BeforeEach(func() {
				var err error
				rec, err = svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "retries", Type: schema.Integer, Value: ptr("3")})
				Expect(err).NotTo(HaveOccurred())
			})

			It("resets the value when only the type changes", func() {
				updated, err := svc.UpdateRecord(ctx, ref, rec.ID, cluster.RecordPatch{Type: ptr(schema.UUID)})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Type).To(Equal(schema.UUID))
				Expect(updated.Value).To(Equal(schema.Example(schema.UUID)))
			})

			It("keeps a value supplied with the new type", func() {
				updated, err := svc.UpdateRecord(ctx, ref, rec.ID, cluster.RecordPatch{Type: ptr(schema.Float), Value: ptr("2.5")})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Value).To(Equal("2.5"))
			})

			It("validates the new value against the current type", func() {
				_, err := svc.UpdateRecord(ctx, ref, rec.ID, cluster.RecordPatch{Value: ptr("3.5")})
				Expect(err).To(MatchError(ContainSubstring("Value must be a valid integer")))

				c, err := svc.Get(ctx, ref)
				Expect(err).NotTo(HaveOccurred())
				Expect(c.Records[0].Value).To(Equal("3"), "a rejected edit leaves the store untouched")
			})

			It("allows renaming a record to a different case of itself", func() {
				updated, err := svc.UpdateRecord(ctx, ref, rec.ID, cluster.RecordPatch{Name: ptr("Retries")})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Name).To(Equal("Retries"))
			})

			It("reports unknown record IDs", func() {
				_, err := svc.UpdateRecord(ctx, ref, "missing", cluster.RecordPatch{Value: ptr("1")})
				Expect(err).To(MatchError(domain.ErrRecordNotFound))
			})
		})

		Describe("DeleteRecord", func() {
			It("removes the record", func() {
				rec, err := svc.AddRecord(ctx, ref, cluster.RecordInput{Name: "flag", Type: schema.Boolean})
				Expect(err).NotTo(HaveOccurred())

				Expect(svc.DeleteRecord(ctx, ref, rec.ID)).To(Succeed())
				Expect(svc.DeleteRecord(ctx, ref, rec.ID)).To(MatchError(domain.ErrRecordNotFound))

				c, err := svc.Get(ctx, ref)
				Expect(err).NotTo(HaveOccurred())
				Expect(c.Records).To(BeEmpty())
			})
		})

		Describe("Check", func() {
			It("reports stored values that no longer validate", func() {
				c, err := store.Load(ctx, ref)
				Expect(err).NotTo(HaveOccurred())
				c.Records = append(c.Records,
					domain.Record{ID: "1", Name: "ok", Type: schema.Boolean, Value: "true"},
					domain.Record{ID: "2", Name: "when", Type: schema.Time, Value: "25:00:00"},
				)
				Expect(store.Save(ctx, c)).To(Succeed())

				report, err := svc.Check(ctx, ref)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Valid).To(BeFalse())
				Expect(report.Records).To(Equal(2))
				Expect(report.Errors).To(HaveLen(1))
				Expect(report.Errors[0].Key).To(Equal("when"))
				Expect(report.Errors[0].Reason).To(Equal("Hours must be between 00 and 23"))
			})

			It("passes a clean cluster", func() {
				report, err := svc.Check(ctx, ref)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Valid).To(BeTrue())
			})
		})
	})

	Describe("Listing", func() {
		BeforeEach(func() {
			for _, r := range []domain.ClusterRef{
				{Project: "acme", Collection: "billing", Cluster: "limits"},
				{Project: "acme", Collection: "billing", Cluster: "Fees"},
				{Project: "acme", Collection: "auth", Cluster: "tokens"},
				{Project: "zeta", Collection: "ops", Cluster: "alerts"},
			} {
				_, err := svc.Create(ctx, r)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("lists projects sorted", func() {
			Expect(svc.Projects(ctx, cluster.ListOptions{})).To(Equal([]string{"acme", "zeta"}))
			Expect(svc.Projects(ctx, cluster.ListOptions{Descending: true})).To(Equal([]string{"zeta", "acme"}))
		})

		It("lists the collections of a project", func() {
			Expect(svc.Collections(ctx, "acme", cluster.ListOptions{})).To(Equal([]string{"auth", "billing"}))
			Expect(svc.Collections(ctx, "nobody", cluster.ListOptions{})).To(BeEmpty())
		})

		It("filters clusters ignoring case", func() {
			Expect(svc.Clusters(ctx, "acme", "billing", cluster.ListOptions{})).To(Equal([]string{"Fees", "limits"}))
			Expect(svc.Clusters(ctx, "acme", "billing", cluster.ListOptions{Filter: "FEE"})).To(Equal([]string{"Fees"}))
		})
	})
})
