package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService manages the product catalog.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListProducts returns the catalog, newest additions first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product by its public id.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// AddProduct creates a product. The public id is derived from the current
// timestamp, the slug from the name; rating defaults to 4.5. Duplicate names
// and slugs are permitted and never merged.
func (s *CatalogService) AddProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	product.ProductID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	product.Slug = Slugify(product.Name)
	if product.Rating == 0 {
		product.Rating = 4.5
	}
	if product.StockStatus == "" {
		product.StockStatus = "In Stock"
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct replaces the stored product fields for the given public id.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID string, updated models.Product) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	updated.ID = product.ID
	updated.ProductID = product.ProductID
	updated.CreatedAt = product.CreatedAt
	if err := s.db.WithContext(ctx).Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

// DeleteProduct removes a product by its public id.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID string) error {
	result := s.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Seed inserts the default product set when the catalog is empty.
func (s *CatalogService) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := defaultProducts()
	if err := s.db.WithContext(ctx).Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	log.Printf("Seeded catalog with %d default products", len(products))
	return nil
}

// Slugify derives a URL slug from a product name: lowercased with spaces
// replaced by dashes.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// defaultProducts is the static catalog used to seed an empty store.
func defaultProducts() []models.Product {
	return []models.Product{
		{
			ProductID:     "1",
			Name:          "Vitamin C Serum",
			Category:      "Wellness",
			Price:         25.99,
			Image:         "/images/vitaminc.jpg",
			Rating:        4.8,
			Slug:          "vitamin-c-serum",
			Description:   "A potent Vitamin C serum that brightens skin tone and reduces signs of aging. Formulated with pure L-Ascorbic Acid for maximum effectiveness.",
			Dosage:        "Apply 2-3 drops to clean skin in the morning before moisturizer and sunscreen.",
			SafetyWarning: "For external use only. Avoid contact with eyes. If irritation occurs, discontinue use.",
			StockStatus:   "In Stock",
			SKU:           "VC-SRM-001",
			Manufacturer:  "GlowHealth Labs",
		},
		{
			ProductID:     "1771266152659",
			Name:          "dolo 650",
			Category:      "Wellness",
			Price:         150,
			Image:         "https://vcareforu.com/wp-content/uploads/2021/07/dolo-650-600x400.jpg",
			Rating:        4.5,
			Slug:          "dolo-650",
			Description:   "Dolo 650 Tablet helps relieve pain and fever by blocking the release of certain chemical messengers responsible for fever and pain.",
			Dosage:        "Take 1 tablet every 4-6 hours as needed, or as directed by your physician. Do not exceed 4g in 24 hours.",
			SafetyWarning: "May cause liver damage if taken in excess. Avoid alcohol while taking this medication.",
			StockStatus:   "In Stock",
			SKU:           "DOLO-650-TAB",
			Manufacturer:  "Micro Labs Ltd",
		},
		{
			ProductID:     "2",
			Name:          "Digital Thermometer",
			Category:      "Devices",
			Price:         15.50,
			Image:         "/images/thermometer.jpg",
			Rating:        4.6,
			Slug:          "digital-thermometer",
			Description:   "Fast and accurate digital thermometer for oral, underarm, or rectal use. Features a clear LCD display and fever alarm.",
			Dosage:        "Clean the tip before and after each use. Place under tongue or underarm for 60 seconds or until it beeps.",
			SafetyWarning: "Do not allow children to use without supervision. Do not bite the thermometer.",
			StockStatus:   "Only 2 Left",
			SKU:           "DIG-THERM-88",
			Manufacturer:  "MediTech Solutions",
		},
		{
			ProductID:     "3",
			Name:          "Whey Protein",
			Category:      "Nutrition",
			Price:         45.00,
			Image:         "/images/whey.jpg",
			Rating:        4.9,
			Slug:          "whey-protein",
			Description:   "High-quality whey protein isolate for muscle recovery and growth. Low in fat and lactose, high in essential amino acids.",
			Dosage:        "Mix one scoop with 200ml of water or milk. Consume within 30 minutes post-workout.",
			SafetyWarning: "This product contains milk and soy. Not intended as a sole source of nutrition.",
			StockStatus:   "In Stock",
			SKU:           "WHEY-ISO-2KG",
			Manufacturer:  "NutraVibe",
		},
		{
			ProductID:     "4",
			Name:          "Diabetic Care Kit",
			Category:      "Diabetes",
			Price:         30.00,
			Image:         "/images/diabetes-kit.jpg",
			Rating:        4.7,
			Slug:          "diabetic-care-kit",
			Description:   "Comprehensive kit for monitoring blood glucose levels. Includes meter, lancing device, and 50 test strips.",
			Dosage:        "Use according to the included user manual. Best results when taken before meals.",
			SafetyWarning: "Consult your doctor for interpreting results. Keep strips in original container.",
			StockStatus:   "In Stock",
			SKU:           "DIA-KIT-PLUS",
			Manufacturer:  "GlucoseGuard",
		},
	}
}
