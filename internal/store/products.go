package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

type productStore struct {
	*MYSQLStore
}

// Products returns an object implementing Products interface
func (ms *MYSQLStore) Products() dependency.Products {
	return &productStore{
		MYSQLStore: ms,
	}
}

const productColumns = `id, slug, name, price, discount_price, discount_percentage, stock,
	description, stock_code, image_url, brand_id, category_id, status, is_changeable,
	attributes, created_at, updated_at`

func productParams(prd *entity.ProductInsert) (map[string]any, error) {
	attrs, err := prd.Attributes.Value()
	if err != nil {
		return nil, fmt.Errorf("can't marshal attributes: %w", err)
	}
	return map[string]any{
		"slug":               prd.Slug,
		"name":               prd.Name,
		"price":              prd.Price,
		"discountPrice":      prd.DiscountPrice,
		"discountPercentage": prd.DiscountPercentage,
		"stock":              prd.Stock,
		"description":        prd.Description,
		"stockCode":          prd.StockCode,
		"imageUrl":           prd.ImageURL,
		"brandId":            prd.BrandId,
		"categoryId":         prd.CategoryId,
		"status":             prd.Status,
		"isChangeable":       prd.IsChangeable,
		"attributes":         attrs,
	}, nil
}

func (ms *productStore) GetProductById(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product WHERE id = :id`
	prd, err := QueryNamedOne[entity.Product](ctx, ms.DB(), query, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &prd, nil
}

func (ms *productStore) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product WHERE slug = :slug`
	prd, err := QueryNamedOne[entity.Product](ctx, ms.DB(), query, map[string]any{
		"slug": slug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &prd, nil
}

func (ms *productStore) CreateProduct(ctx context.Context, prd *entity.ProductInsert) (string, error) {
	params, err := productParams(prd)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	params["id"] = id
	params["now"] = ms.Now()

	query := `
	INSERT INTO product
		(id, slug, name, price, discount_price, discount_percentage, stock, description,
		stock_code, image_url, brand_id, category_id, status, is_changeable, attributes,
		created_at, updated_at)
	VALUES
		(:id, :slug, :name, :price, :discountPrice, :discountPercentage, :stock, :description,
		:stockCode, :imageUrl, :brandId, :categoryId, :status, :isChangeable, :attributes,
		:now, :now)`
	if err := ExecNamed(ctx, ms.DB(), query, params); err != nil {
		if IsErrUniqueViolation(err) {
			return "", gerr.Wrap(gerr.KindStorageFailure, err, "product slug %s already exists", prd.Slug)
		}
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (ms *productStore) UpdateProductFields(ctx context.Context, id string, prd *entity.ProductInsert) error {
	params, err := productParams(prd)
	if err != nil {
		return err
	}
	params["id"] = id
	params["now"] = ms.Now()

	query := `
	UPDATE product SET
		slug = :slug,
		name = :name,
		price = :price,
		discount_price = :discountPrice,
		discount_percentage = :discountPercentage,
		stock = :stock,
		description = :description,
		stock_code = :stockCode,
		image_url = :imageUrl,
		brand_id = :brandId,
		category_id = :categoryId,
		status = :status,
		is_changeable = :isChangeable,
		attributes = :attributes,
		updated_at = :now
	WHERE id = :id`
	if err := ms.requireProduct(ctx, "id", id); err != nil {
		return err
	}
	if err := ExecNamed(ctx, ms.DB(), query, params); err != nil {
		if IsErrUniqueViolation(err) {
			return gerr.Wrap(gerr.KindStorageFailure, err, "product slug %s already exists", prd.Slug)
		}
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return nil
}

func (ms *productStore) SetProductStatus(ctx context.Context, id string, status entity.ProductStatus) error {
	if err := ms.requireProduct(ctx, "id", id); err != nil {
		return err
	}
	query := `UPDATE product SET status = :status, updated_at = :now WHERE id = :id`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"status": status,
		"now":    ms.Now(),
		"id":     id,
	})
	if err != nil {
		return fmt.Errorf("failed to set product status: %w", err)
	}
	return nil
}

func (ms *productStore) SetProductChangeability(ctx context.Context, slug string, changeable bool) error {
	if err := ms.requireProduct(ctx, "slug", slug); err != nil {
		return err
	}
	query := `UPDATE product SET is_changeable = :changeable, updated_at = :now WHERE slug = :slug`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"changeable": changeable,
		"now":        ms.Now(),
		"slug":       slug,
	})
	if err != nil {
		return fmt.Errorf("failed to set product changeability: %w", err)
	}
	return nil
}

type productRef struct {
	Id string `db:"id"`
}

// requireProduct returns a wrapped sql.ErrNoRows when no product matches.
// MySQL reports zero affected rows for no-op updates, so existence is
// checked up front.
func (ms *productStore) requireProduct(ctx context.Context, column string, value string) error {
	query := fmt.Sprintf(`SELECT id FROM product WHERE %s = :value`, column)
	_, err := QueryNamedOne[productRef](ctx, ms.DB(), query, map[string]any{
		"value": value,
	})
	if err != nil {
		return fmt.Errorf("product %s %s: %w", column, value, err)
	}
	return nil
}
