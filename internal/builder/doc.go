/*
Package builder turns the validated model into compose service records, one
service at a time. It is the bridge between the static description of an
emulation (the 'model' package) and the compose document the orchestrator in
the 'convert' package assembles.

Every service kind has its own build function, registered in a table keyed by
Kind. A build function receives the shared Input and a Request naming the
service to build, and returns a fully populated *compose.Service.

Building one service happens in three steps:

 1. Identity: the container name is derived from the service's base name and
    the optional system-unique-id; the image from the hardware kind, the
    emulation level and the source type.

 2. Sources: the sources the service consumes decide between remote build
    args and local bind mounts. Emulator services also get the entrypoint
    script and, when they consume the monorepo, the shared wheels volume.

 3. Wiring: environment variables, ports, the command and the names of the
    services this one depends on. Dependencies are plain container names; the
    orchestrator resolves and checks them once every service exists.

Build functions never look at each other's output, so they can run in any
order.
*/
package builder
