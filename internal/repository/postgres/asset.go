package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"ninescapeland/internal/domain"
	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/domain/repositories"
)

// PostgresAssetRepository implements the AssetRepository interface
type PostgresAssetRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(config *RepositoryConfig) repositories.AssetRepository {
	return &PostgresAssetRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new asset row
func (r *PostgresAssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, file_name, file_path, size, mime_type, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Assets)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		asset.FolderID,
		asset.FileName,
		asset.FilePath,
		asset.Size,
		asset.MimeType,
		asset.Width,
		asset.Height,
		asset.CreatedAt,
	).Scan(&asset.ID, &asset.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("asset '%s': %w", asset.FilePath, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("asset folder %v: %w", asset.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("create asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by ID
func (r *PostgresAssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, file_name, file_path, size, mime_type, width, height, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Assets)

	var asset models.Asset
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&asset.ID,
		&asset.FolderID,
		&asset.FileName,
		&asset.FilePath,
		&asset.Size,
		&asset.MimeType,
		&asset.Width,
		&asset.Height,
		&asset.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &asset, nil
}

// ListByFolder lists assets in a folder, newest first
func (r *PostgresAssetRepository) ListByFolder(ctx context.Context, folderID *string) ([]models.Asset, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT id, folder_id, file_name, file_path, size, mime_type, width, height, created_at
			FROM %s
			WHERE folder_id IS NULL
			ORDER BY created_at DESC
		`, r.tables.Assets)
	} else {
		query = fmt.Sprintf(`
			SELECT id, folder_id, file_name, file_path, size, mime_type, width, height, created_at
			FROM %s
			WHERE folder_id = $1
			ORDER BY created_at DESC
		`, r.tables.Assets)
		args = append(args, *folderID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var asset models.Asset
		err := rows.Scan(
			&asset.ID,
			&asset.FolderID,
			&asset.FileName,
			&asset.FilePath,
			&asset.Size,
			&asset.MimeType,
			&asset.Width,
			&asset.Height,
			&asset.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	return assets, nil
}

// Delete deletes an asset row
func (r *PostgresAssetRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Assets)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
