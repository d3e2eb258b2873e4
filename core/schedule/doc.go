// Package schedule turns weekly timetable rows and charter trip rows into
// intervals over a canonical week starting Sunday 00:00.
//
// Weekly routes are padded: both ends are moved towards the middle by a fixed
// number of minutes so that back-to-back commitments separated only by travel
// buffers do not count as conflicts. Charter trips are not padded and roll
// onto the following day when they return at or before their pickup time.
package schedule
