// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package models defines the data structures shared across OpusCine.

Key Components:

  - MediaKind: entity kind of a title (movie or tv)
  - OTTLinkRecord: canonical streaming availability entry
  - RawLink: a catalog link exactly as stored, either a plain URL string or a
    structured record, decoded into a tagged variant
  - CatalogEntry: one title of the bulk catalog with its raw links
  - TranslationResult: structured discovery parameters produced from free text

OTTLinkRecord values are produced by ott.Normalize and never mutated afterwards.
CatalogEntry values are immutable once a catalog snapshot is built.
*/
package models
