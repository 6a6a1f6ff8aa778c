package handler

import (
	"context"

	"salesdesk-be/internal/dashboard"
	"salesdesk-be/internal/lead"
	"salesdesk-be/internal/order"
	"salesdesk-be/internal/product"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) CreateOrder(ctx context.Context, input order.CreateInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id string, input order.UpdateInput) (*order.Order, error) {
	args := m.Called(ctx, id, input)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderService) SetOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter order.ListFilter) (*order.ListResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*order.ListResult)
	return res, args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, filter product.ListFilter) (*product.ListResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*product.ListResult)
	return res, args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, input product.CreateInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id string, input product.UpdateInput) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) ToggleProduct(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockLeadService struct{ mock.Mock }

func (m *MockLeadService) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*lead.Lead)
	return l, args.Error(1)
}

func (m *MockLeadService) ListLeads(ctx context.Context, filter lead.ListFilter) (*lead.ListResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*lead.ListResult)
	return res, args.Error(1)
}

func (m *MockLeadService) CreateLead(ctx context.Context, input lead.CreateInput) (*lead.Lead, error) {
	args := m.Called(ctx, input)
	l, _ := args.Get(0).(*lead.Lead)
	return l, args.Error(1)
}

func (m *MockLeadService) UpdateLead(ctx context.Context, id string, input lead.UpdateInput) (*lead.Lead, error) {
	args := m.Called(ctx, id, input)
	l, _ := args.Get(0).(*lead.Lead)
	return l, args.Error(1)
}

func (m *MockLeadService) DeleteLead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadService) MessageForLead(ctx context.Context, id string) (*lead.MessageTemplate, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*lead.MessageTemplate)
	return t, args.Error(1)
}

type MockDashboardService struct{ mock.Mock }

func (m *MockDashboardService) Stats(ctx context.Context) (*dashboard.Stats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*dashboard.Stats)
	return s, args.Error(1)
}
