package mocks

//go:generate mockery --name Store --srcpkg github.com/hooksmith/usersync/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Sender --srcpkg github.com/hooksmith/usersync/internal/relay --output ./relay --outpkg relaymocks --with-expecter
