package dimension

import (
	"sort"

	"prism/internal/cleanse"
	"prism/internal/silver"
)

// Assembler produces the gold relations from conformed silver entities.
type Assembler struct {
	gender *Resolver
}

// NewAssembler builds an assembler with the given master-data precedence
// order (highest priority first).
func NewAssembler(precedence []string) *Assembler {
	return &Assembler{
		gender: NewResolver(precedence, cleanse.Unknown),
	}
}

// Customers builds DimCustomer: CRM customers left-joined to ERP
// demographics and locations on the customer number. Missing matches yield
// Unknown/nil secondary attributes, never a dropped row. Surrogate keys
// follow ascending customer id.
func (a *Assembler) Customers(customers []silver.Customer, demographics []silver.Demographic, locations []silver.Location) []DimCustomer {
	demoByID := make(map[string]silver.Demographic, len(demographics))
	for _, d := range demographics {
		demoByID[d.CustomerID] = d
	}
	locByID := make(map[string]silver.Location, len(locations))
	for _, l := range locations {
		locByID[l.CustomerID] = l
	}

	ordered := append([]silver.Customer(nil), customers...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CustomerID < ordered[j].CustomerID
	})

	out := make([]DimCustomer, 0, len(ordered))
	for i, c := range ordered {
		dim := DimCustomer{
			CustomerKey:    int64(i + 1),
			CustomerID:     c.CustomerID,
			CustomerNumber: c.CustomerKey,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			MaritalStatus:  c.MaritalStatus,
			Country:        cleanse.Unknown,
			CreateDate:     c.CreateDate,
		}

		genders := map[string]string{SourceCRM: c.Gender}
		if d, ok := demoByID[c.CustomerKey]; ok {
			genders[SourceERP] = d.Gender
			dim.Birthdate = d.Birthdate
		}
		dim.Gender = a.gender.Resolve(genders)

		if l, ok := locByID[c.CustomerKey]; ok {
			dim.Country = l.Country
		}

		out = append(out, dim)
	}
	return out
}

// Products builds DimProduct over currently active products only (nil
// derived end date), left-joined to ERP categories on the category id.
// Surrogate keys follow ascending start date then product number.
func (a *Assembler) Products(products []silver.Product, categories []silver.Category) []DimProduct {
	catByID := make(map[string]silver.Category, len(categories))
	for _, c := range categories {
		catByID[c.CategoryID] = c
	}

	active := make([]silver.Product, 0, len(products))
	for _, p := range products {
		if p.EndDate == nil {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		p, q := active[i], active[j]
		switch {
		case p.StartDate == nil && q.StartDate != nil:
			return true
		case p.StartDate != nil && q.StartDate == nil:
			return false
		case p.StartDate != nil && q.StartDate != nil && !p.StartDate.Equal(*q.StartDate):
			return p.StartDate.Before(*q.StartDate)
		default:
			return p.ProductNumber < q.ProductNumber
		}
	})

	out := make([]DimProduct, 0, len(active))
	for i, p := range active {
		dim := DimProduct{
			ProductKey:      int64(i + 1),
			ProductID:       p.ProductID,
			ProductNumber:   p.ProductNumber,
			ProductName:     p.Name,
			CategoryID:      p.CategoryID,
			Category:        cleanse.Unknown,
			Subcategory:     cleanse.Unknown,
			MaintenanceFlag: cleanse.Unknown,
			Cost:            p.Cost,
			Line:            p.Line,
			StartDate:       p.StartDate,
		}
		if c, ok := catByID[p.CategoryID]; ok {
			dim.Category = c.Category
			dim.Subcategory = c.Subcategory
			dim.MaintenanceFlag = c.Maintenance
		}
		out = append(out, dim)
	}
	return out
}

// Facts builds FactSale: each transaction left-joined to both dimensions by
// natural/business key. Unresolved references propagate as nil surrogate
// keys; no row is dropped.
func (a *Assembler) Facts(sales []silver.Sale, customers []DimCustomer, products []DimProduct) []FactSale {
	customerKeyByID := make(map[int64]int64, len(customers))
	for _, c := range customers {
		customerKeyByID[c.CustomerID] = c.CustomerKey
	}
	productKeyByNumber := make(map[string]int64, len(products))
	for _, p := range products {
		productKeyByNumber[p.ProductNumber] = p.ProductKey
	}

	out := make([]FactSale, 0, len(sales))
	for _, s := range sales {
		fact := FactSale{
			OrderNumber:  s.OrderNumber,
			OrderDate:    s.OrderDate,
			ShippingDate: s.ShipDate,
			DueDate:      s.DueDate,
			SalesAmount:  s.Sales,
			Quantity:     s.Quantity,
			Price:        s.Price,
		}
		if s.CustomerID != nil {
			if key, ok := customerKeyByID[*s.CustomerID]; ok {
				k := key
				fact.CustomerKey = &k
			}
		}
		if key, ok := productKeyByNumber[s.ProductKey]; ok {
			k := key
			fact.ProductKey = &k
		}
		out = append(out, fact)
	}
	return out
}
