// Package datamodel lists the persisted rows in foreign key order.
package datamodel

import (
	"github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/application"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/category"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/notification"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/user"
)

// All returns one zero value per table, parents first.
func All() []interface{} {
	return []interface{}{
		&user.User{},
		&category.Category{},
		&company.Company{},
		&applicant.ApplicantProfile{},
		&offer.JobOffer{},
		&application.Application{},
		&favorite.Favorite{},
		&notification.Notification{},
	}
}
