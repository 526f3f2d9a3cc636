package usecase

import (
	"context"
	"sync"
	"time"

	"agrotrust/internal/adapter/repository"
	"agrotrust/internal/domain/entity"
)

var testNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
}

func (p *recordingPublisher) Publish(evt entity.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type stubAdvisor struct {
	description string
	audit       string
	issues      []string
}

func (a *stubAdvisor) DescribeProduct(ctx context.Context, p *entity.Product) string {
	return a.description
}

func (a *stubAdvisor) AnalyzeDispute(ctx context.Context, orderID, issue string) string {
	a.issues = append(a.issues, issue)
	return a.audit
}

func testFarmers() []entity.FarmerProfile {
	return []entity.FarmerProfile{
		{ID: "f1", Name: "Musa Ibrahim", FarmName: "Green Valley Organics", Location: "Kaduna", Verified: true, TrustScore: 98, Phone: "08030000001", NIN: "11111111111"},
		{ID: "f3", Name: "Bayo Adebayo", FarmName: "Sunshine Groves", Location: "Ogun", Verified: false, TrustScore: 70, Phone: "08030000003"},
	}
}

func testProducts() []entity.Product {
	return []entity.Product{
		{ID: "p1", Name: "Jos Tomatoes", Category: "Vegetables", Price: 1500, Unit: "basket", FarmerID: "f1", State: "Kaduna", Verified: true},
		{ID: "p3", Name: "Benue Yams", Category: "Tubers", Price: 3500, Unit: "tuber", FarmerID: "f3", State: "Ogun"},
		{ID: "p4", Name: "Ugu Leaves", Category: "Vegetables", Price: 500, Unit: "bunch", FarmerID: "f1", State: "Kaduna", Verified: true},
	}
}

type fixture struct {
	events       *recordingPublisher
	advisor      *stubAdvisor
	farmers      *FarmerUseCase
	registration *RegistrationUseCase
	products     *ProductUseCase
	orders       *OrderUseCase
	clock        *time.Time
}

func newFixture() *fixture {
	clock := testNow
	now := func() time.Time { return clock }

	events := &recordingPublisher{}
	advisor := &stubAdvisor{description: "Fresh from Kaduna.", audit: "Refund half."}

	farmerRepo := repository.NewMemoryFarmerRepository(testFarmers())
	productRepo := repository.NewMemoryProductRepository(testProducts())
	orderRepo := repository.NewMemoryOrderRepository(nil)

	f := &fixture{
		events:  events,
		advisor: advisor,
		clock:   &clock,
	}
	f.farmers = NewFarmerUseCase(farmerRepo, repository.NewMemoryRejectionRepository(), events)
	f.farmers.now = now
	f.registration = NewRegistrationUseCase(f.farmers)
	f.registration.now = now
	f.products = NewProductUseCase(productRepo, farmerRepo, advisor, events)
	f.products.now = now
	f.orders = NewOrderUseCase(orderRepo, productRepo, advisor, events, 24*time.Hour)
	f.orders.now = now
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func completeApplication() entity.FarmerApplication {
	return entity.FarmerApplication{
		FirstName:        "Amina",
		LastName:         "Bello",
		Phone:            "08031234567",
		StateOfResidence: "Kaduna",
		FarmName:         "Zaria Fields",
		MainCrops:        []string{"Yam", "Maize"},
		NIN:              "12345678901",
		NINImageURL:      "docs/nin-amina.jpg",
	}
}
