package category_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories map[int64]*categoryDatamodel.Category
	references map[int64]int64
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[int64]*categoryDatamodel.Category),
		references: make(map[int64]int64),
	}
}

func (m *MockRepository) GetAll(_ context.Context) ([]*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.Category
	for _, cat := range m.categories {
		result = append(result, cat)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockRepository) GetByName(_ context.Context, name string) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, cat := range m.categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetByID(_ context.Context, id int64) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if cat, ok := m.categories[id]; ok {
		cp := *cat
		return &cp, nil
	}
	return nil, nil
}

func (m *MockRepository) Create(_ context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	cat.ID = m.nextID
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Update(_ context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Delete(_ context.Context, id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.categories, id)
	return nil
}

func (m *MockRepository) CountReferences(_ context.Context, id int64) (int64, error) {
	return m.references[id], nil
}

var _ = Describe("Category Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *category.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		service = category.NewService(mockRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("Create", func() {
		It("should create a category", func() {
			c, err := service.Create(ctx, category.CreateCategoryDTO{Name: " Groceries ", Type: category.TypeExpense})

			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(BeNumerically(">", 0))
			Expect(c.Name).To(Equal("Groceries"))
		})

		It("should reject a duplicate name with 400", func() {
			_, err := service.Create(ctx, category.CreateCategoryDTO{Name: "Gifts", Type: category.TypeExpense})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, category.CreateCategoryDTO{Name: "Gifts", Type: category.TypeIncome})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Message).To(Equal("Category with this name already exists"))
		})

		It("should reject an unknown type with 422", func() {
			_, err := service.Create(ctx, category.CreateCategoryDTO{Name: "Odd", Type: "transfer"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
		})

		It("should reject an empty or overlong name", func() {
			_, err := service.Create(ctx, category.CreateCategoryDTO{Name: "   ", Type: category.TypeBoth})
			Expect(err).To(HaveOccurred())

			long := make([]byte, 101)
			for i := range long {
				long[i] = 'a'
			}
			_, err = service.Create(ctx, category.CreateCategoryDTO{Name: string(long), Type: category.TypeBoth})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("should only change provided fields", func() {
			c, _ := service.Create(ctx, category.CreateCategoryDTO{Name: "School", Type: category.TypeExpense})
			both := category.TypeBoth

			updated, err := service.Update(ctx, c.ID, category.UpdateCategoryDTO{Type: &both})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("School"))
			Expect(updated.Type).To(Equal(category.TypeBoth))
		})

		It("should allow keeping the same name", func() {
			c, _ := service.Create(ctx, category.CreateCategoryDTO{Name: "School", Type: category.TypeExpense})
			name := "School"

			_, err := service.Update(ctx, c.ID, category.UpdateCategoryDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse to take another category's name", func() {
			_, _ = service.Create(ctx, category.CreateCategoryDTO{Name: "School", Type: category.TypeExpense})
			c, _ := service.Create(ctx, category.CreateCategoryDTO{Name: "Salary", Type: category.TypeIncome})
			name := "School"

			_, err := service.Update(ctx, c.ID, category.UpdateCategoryDTO{Name: &name})
			Expect(err).To(MatchError(category.ErrDuplicateName))
		})

		It("should return not found for unknown ids", func() {
			_, err := service.Update(ctx, 42, category.UpdateCategoryDTO{})
			Expect(err).To(MatchError(internal.ErrCategoryNotFound))
		})
	})

	Describe("Delete", func() {
		It("should refuse while transactions reference it", func() {
			c, _ := service.Create(ctx, category.CreateCategoryDTO{Name: "Utilities", Type: category.TypeExpense})
			mockRepo.references[c.ID] = 2

			err := service.Delete(ctx, c.ID)
			Expect(err).To(MatchError(category.ErrStillInUse))
			Expect(mockRepo.categories).To(HaveKey(c.ID))
		})

		It("should delete unreferenced categories", func() {
			c, _ := service.Create(ctx, category.CreateCategoryDTO{Name: "Utilities", Type: category.TypeExpense})

			Expect(service.Delete(ctx, c.ID)).To(Succeed())
			_, err := service.Get(ctx, c.ID)
			Expect(err).To(MatchError(internal.ErrCategoryNotFound))
		})
	})

	Describe("List", func() {
		It("should order by name", func() {
			_, _ = service.Create(ctx, category.CreateCategoryDTO{Name: "Utilities", Type: category.TypeExpense})
			_, _ = service.Create(ctx, category.CreateCategoryDTO{Name: "Allowance", Type: category.TypeBoth})

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Name).To(Equal("Allowance"))
		})

		It("should wrap repository errors", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("database connection failed")

			_, err := service.List(ctx)
			Expect(err).To(MatchError(ContainSubstring("database connection failed")))
		})
	})
})
