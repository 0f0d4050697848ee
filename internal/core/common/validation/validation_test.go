package validation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func fieldErrors(err *internal.AppError) []internal.ValidationError {
	Expect(err).NotTo(BeNil())
	details, ok := err.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("name", "Groceries").Required().MaxLength(100)
		v.Field("type", "expense").OneOf("income", "expense", "both")
		v.Field("email", "parent@example.com").Email()
		v.Field("amount", decimal.NewFromInt(5)).PositiveAmount()
		Expect(v.Validate()).To(BeNil())
	})

	It("collects one error per failing field", func() {
		v := validation.NewValidator()
		v.Field("name", "  ").Required().MaxLength(1)
		v.Field("type", "gift").OneOf("income", "expense")
		v.Field("amount", decimal.Zero).PositiveAmount()

		err := v.Validate()
		Expect(err.StatusCode).To(Equal(422))
		errs := fieldErrors(err)
		Expect(errs).To(HaveLen(3))
		Expect(errs[0]).To(Equal(internal.ValidationError{Field: "name", Message: "name is required", Code: "VALIDATION_FAILED"}))
		Expect(errs[1].Code).To(Equal("INVALID_TYPE"))
		Expect(errs[2]).To(Equal(internal.ValidationError{Field: "amount", Message: "amount must be greater than 0", Code: "INVALID_AMOUNT"}))
	})

	It("skips nil pointers for partial updates", func() {
		var amount *decimal.Decimal
		var id *int64
		var name *string
		v := validation.NewValidator()
		v.Field("amount", amount).PositiveAmount()
		v.Field("category_id", id).PositiveID()
		v.Field("name", name).MaxLength(3)
		Expect(v.Validate()).To(BeNil())
	})

	DescribeTable("email",
		func(addr string, ok bool) {
			v := validation.NewValidator()
			v.Field("email", addr).Email()
			if ok {
				Expect(v.Validate()).To(BeNil())
			} else {
				Expect(v.Validate()).NotTo(BeNil())
			}
		},
		Entry("plain", "a@example.com", true),
		Entry("empty is left to Required", "", true),
		Entry("no tld", "a@localhost", false),
		Entry("display name", "A <a@example.com>", false),
		Entry("missing at", "example.com", false),
	)

	It("counts runes for length limits", func() {
		Expect(validation.ValidateName("ééé", 3)).To(BeNil())
		Expect(validation.ValidateName("éééé", 3)).NotTo(BeNil())
	})

	It("rejects non-positive amounts", func() {
		errs := fieldErrors(validation.ValidateAmount(decimal.NewFromInt(-1)))
		Expect(errs[0].Field).To(Equal("amount"))
	})

	DescribeTable("amount precision",
		func(raw string, ok bool) {
			err := validation.ValidateAmount(decimal.RequireFromString(raw))
			if ok {
				Expect(err).To(BeNil())
				return
			}
			Expect(fieldErrors(err)[0].Code).To(Equal("INVALID_AMOUNT"))
		},
		Entry("cents", "100.01", true),
		Entry("trailing zero", "100.010", true),
		Entry("largest storable", "999999999999.99", true),
		Entry("below a cent", "0.001", false),
		Entry("sub-cent remainder", "100.005", false),
		Entry("too many integer digits", "1000000000000", false),
	)

	It("rejects non-positive ids", func() {
		id := int64(0)
		v := validation.NewValidator()
		v.Field("person_id", &id).PositiveID()
		Expect(fieldErrors(v.Validate())[0].Code).To(Equal("INVALID_REFERENCE"))
	})
})
