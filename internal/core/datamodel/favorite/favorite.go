package favorite

import (
	"time"

	"github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/user"
)

type Favorite struct {
	ID      int64           `gorm:"primaryKey"`
	UserID  int64           `gorm:"column:usuario_id;not null;uniqueIndex:uq_favorito_usuario_oferta,priority:1"`
	User    *user.User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	OfferID int64           `gorm:"column:oferta_id;not null;uniqueIndex:uq_favorito_usuario_oferta,priority:2"`
	Offer   *offer.JobOffer `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
	AddedAt time.Time       `gorm:"column:fecha_agregado;autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorito"
}
