package service

import "pokedex-cards/models"

// DisplayInterface defines the contract for the surface cards are rendered on
type DisplayInterface interface {
	Append(card models.CardFragment)
	Clear()
	SetFilterActive(active bool)
	ShowNotice(kind models.NoticeKind, message string)
	DismissNotice()
	Snapshot() models.DisplaySnapshot
}
