package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormStore is the MySQL-backed Store used in production.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(cfg *config.MySQLConfig) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	// Auto migrate
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderLine{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, name, category string) (*models.Product, error) {
	product := &models.Product{
		Name:     name,
		Category: category,
		Cost:     1,
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *GormStore) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *GormStore) ProductByNameFragment(ctx context.Context, fragment string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("name LIKE ?", "%"+fragment+"%").
		Order("id").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to resolve product by fragment: %w", err)
	}
	return &product, nil
}

func (s *GormStore) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, items []LineItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &models.Order{}

	// Header and every line commit or roll back together; the composite
	// unique index on (order_id, product_id) rejects repeated products.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order header: %w", err)
		}
		for _, item := range items {
			line := models.OrderLine{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateLine
				}
				return fmt.Errorf("failed to create order line: %w", err)
			}
			order.Lines = append(order.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *GormStore) OrdersContaining(ctx context.Context, productID int64) ([]models.Order, error) {
	var orderIDs []int64
	err := s.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("product_id = ?", productID).
		Pluck("order_id", &orderIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders containing product: %w", err)
	}
	if len(orderIDs) == 0 {
		return nil, nil
	}

	var orders []models.Order
	err = s.db.WithContext(ctx).
		Preload("Lines").
		Where("id IN ?", orderIDs).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *GormStore) CountLines(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.OrderLine{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count order lines: %w", err)
	}
	return count, nil
}
