package postprocess

import "fintracker/internal/models"

// cardIndex looks registered cards up by last four digits and by holder.
type cardIndex struct {
	byDigits map[string]*models.CreditCard
	byMember map[string]*models.CreditCard
}

func newCardIndex(cards []models.CreditCard) cardIndex {
	idx := cardIndex{
		byDigits: make(map[string]*models.CreditCard, len(cards)),
		byMember: make(map[string]*models.CreditCard, len(cards)),
	}
	for i := range cards {
		c := &cards[i]
		if c.LastFourDigits != "" {
			if _, dup := idx.byDigits[c.LastFourDigits]; !dup {
				idx.byDigits[c.LastFourDigits] = c
			}
		}
		if c.HolderFamilyMemberID != nil && *c.HolderFamilyMemberID != "" {
			if _, dup := idx.byMember[*c.HolderFamilyMemberID]; !dup {
				idx.byMember[*c.HolderFamilyMemberID] = c
			}
		}
	}
	return idx
}

// match returns the card for digits, or when there are no digits the card
// registered to memberID. Unknown digits match nothing.
func (idx cardIndex) match(digits string, memberID *string) *models.CreditCard {
	if digits != "" {
		return idx.byDigits[digits]
	}
	if memberID != nil {
		return idx.byMember[*memberID]
	}
	return nil
}
