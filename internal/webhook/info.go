package webhook

import (
	"context"
	"strings"

	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/restaurant"
)

func (s *Service) showMenu(_ context.Context, t *turn) (Response, error) {
	lines := []string{s.tr.T(t.lang, "menu.title", nil)}
	for _, section := range restaurant.Menu() {
		dishes := make([]string, 0, len(section.Dishes))
		for _, d := range section.Dishes {
			dishes = append(dishes, d.String())
		}
		lines = append(lines, s.tr.T(t.lang, section.Key, nil)+": "+strings.Join(dishes, ", "))
	}
	lines = append(lines, s.tr.T(t.lang, "menu.footer", nil))
	return MultiResponse(lines...), nil
}

func (s *Service) openingHours(_ context.Context, t *turn) (Response, error) {
	args := s.windowArgs()
	return MultiResponse(
		s.tr.T(t.lang, "hours.title", nil),
		s.tr.T(t.lang, "hours.daily", args),
		s.tr.T(t.lang, "hours.last", args),
	), nil
}

func (s *Service) restaurantInfo(_ context.Context, t *turn) (Response, error) {
	return MultiResponse(
		s.tr.T(t.lang, "info.title", i18n.Args{"Name": s.info.Name}),
		s.tr.T(t.lang, "info.address", i18n.Args{"Address": s.info.Address}),
		s.tr.T(t.lang, "info.phone", i18n.Args{"Phone": s.info.Phone}),
		s.tr.T(t.lang, "info.email", i18n.Args{"Email": s.info.Email}),
		s.tr.T(t.lang, "info.hours", s.windowArgs()),
	), nil
}

func (s *Service) contactHuman(_ context.Context, t *turn) (Response, error) {
	return TextResponse(s.tr.T(t.lang, "contact.human", i18n.Args{"Phone": s.info.Phone, "Email": s.info.Email})), nil
}

func (s *Service) location(_ context.Context, t *turn) (Response, error) {
	return TextResponse(s.tr.T(t.lang, "location", i18n.Args{"Address": s.info.Address, "MapsURL": s.info.MapsURL})), nil
}
