package scheduler

var Draw = draw
