// Package vbschedule reads final finishes from the VBSchedule results API
// (api.vbschedule.com).
package vbschedule
