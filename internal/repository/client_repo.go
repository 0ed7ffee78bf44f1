package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type clientRepository struct {
	db   *gorm.DB
	node *snowflake.Node
}

func (r *clientRepository) Create(ctx context.Context, c *domain.Client) error {
	if c.ID == 0 {
		c.ID = r.node.Generate()
	}
	m := toClientModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("insert client", err)
	}
	c.CreatedAt = utc(m.CreatedAt)
	c.UpdatedAt = utc(m.UpdatedAt)
	return nil
}

func (r *clientRepository) Update(ctx context.Context, c *domain.Client) error {
	tx := r.db.WithContext(ctx).
		Model(&clientModel{}).
		Where("id = ?", int64(c.ID)).
		Updates(map[string]any{
			"name":  c.Name,
			"phone": optional(c.Phone),
			"email": optional(c.Email),
		})
	if tx.Error != nil {
		return wrapErr("update client", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFoundf("client %s", c.ID)
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Client, error) {
	var m clientModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, wrapErr("client "+id.String(), err)
	}
	return toDomainClient(m), nil
}

func (r *clientRepository) GetByIDs(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]domain.Client, error) {
	out := make(map[snowflake.ID]domain.Client, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}

	var rows []clientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&rows).Error; err != nil {
		return nil, wrapErr("query clients", err)
	}
	for _, m := range rows {
		out[snowflake.ID(m.ID)] = *toDomainClient(m)
	}
	return out, nil
}
