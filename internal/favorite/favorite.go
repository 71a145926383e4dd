package favorite

import (
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
	favoriteDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	"github.com/frahmantamala/empleoya/internal/offer"
)

type Favorite struct {
	ID      int64           `json:"id"`
	Offer   *offer.ListItem `json:"oferta"`
	AddedAt time.Time       `json:"fecha_agregado"`
}

func FromDataModel(f *favoriteDatamodel.Favorite) *Favorite {
	out := &Favorite{ID: f.ID, AddedAt: f.AddedAt}
	if f.Offer != nil {
		out.Offer = offer.ToListItem(f.Offer)
	}
	return out
}

type AddFavoriteDTO struct {
	OfferID int64 `json:"oferta_id"`
}

func (d *AddFavoriteDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("oferta_id", d.OfferID).Required()
	return v.Validate()
}
